// Package tickers resolves company names to ticker symbols. The builtin
// table is a pure data asset queried by normalized lowercase key; ambiguous
// non-US issuers carry a "region:<country>:<name>" key so a bare name never
// silently resolves to the wrong listing.
package tickers

// builtin maps normalized lowercase company names to their primary US-listed
// ticker. Keys with the region prefix disambiguate issuers whose bare name
// collides across markets.
var builtin = map[string]string{
	"apple":               "AAPL",
	"microsoft":           "MSFT",
	"alphabet":            "GOOGL",
	"google":              "GOOGL",
	"amazon":              "AMZN",
	"meta":                "META",
	"facebook":            "META",
	"nvidia":              "NVDA",
	"tesla":               "TSLA",
	"netflix":             "NFLX",
	"broadcom":            "AVGO",
	"amd":                 "AMD",

	"advanced micro devices": "AMD",

	"intel":               "INTC",
	"qualcomm":            "QCOM",
	"oracle":              "ORCL",
	"salesforce":          "CRM",
	"adobe":               "ADBE",
	"ibm":                 "IBM",
	"cisco":               "CSCO",
	"palantir":            "PLTR",
	"shopify":             "SHOP",
	"uber":                "UBER",
	"airbnb":              "ABNB",
	"paypal":              "PYPL",
	"visa":                "V",
	"mastercard":          "MA",
	"jpmorgan":            "JPM",
	"jp morgan":           "JPM",
	"goldman sachs":       "GS",
	"morgan stanley":      "MS",
	"bank of america":     "BAC",
	"wells fargo":         "WFC",
	"berkshire hathaway":  "BRK.B",
	"blackrock":           "BLK",
	"johnson & johnson":   "JNJ",
	"johnson and johnson": "JNJ",
	"pfizer":              "PFE",
	"merck":               "MRK",
	"eli lilly":           "LLY",
	"abbvie":              "ABBV",
	"unitedhealth":        "UNH",
	"exxon":               "XOM",
	"exxonmobil":          "XOM",
	"chevron":             "CVX",
	"walmart":             "WMT",
	"costco":              "COST",
	"target":              "TGT",
	"home depot":          "HD",
	"mcdonalds":           "MCD",
	"starbucks":           "SBUX",
	"coca-cola":           "KO",
	"coca cola":           "KO",
	"pepsico":             "PEP",
	"pepsi":               "PEP",
	"procter & gamble":    "PG",
	"procter and gamble":  "PG",
	"nike":                "NKE",
	"disney":              "DIS",
	"boeing":              "BA",
	"caterpillar":         "CAT",
	"general electric":    "GE",
	"ford":                "F",
	"general motors":      "GM",
	"at&t":                "T",
	"verizon":             "VZ",
	"intuit":              "INTU",
	"servicenow":          "NOW",
	"snowflake":           "SNOW",
	"datadog":             "DDOG",
	"crowdstrike":         "CRWD",

	// Non-domestic issuers, US-listed ADRs or foreign primaries.
	"region:tw:tsmc":                  "TSM",
	"region:tw:taiwan semiconductor":  "TSM",
	"region:jp:toyota":                "TM",
	"region:jp:sony":                  "SONY",
	"region:jp:nintendo":              "NTDOY",
	"region:kr:samsung":               "SSNLF",
	"region:nl:asml":                  "ASML",
	"region:dk:novo nordisk":          "NVO",
	"region:ch:novartis":              "NVS",
	"region:ch:nestle":                "NSRGY",
	"region:de:sap":                   "SAP",
	"region:de:siemens":               "SIEGY",
	"region:fr:lvmh":                  "LVMUY",
	"region:fr:totalenergies":         "TTE",
	"region:uk:astrazeneca":           "AZN",
	"region:uk:shell":                 "SHEL",
	"region:uk:hsbc":                  "HSBC",
	"region:cn:alibaba":               "BABA",
	"region:cn:tencent":               "TCEHY",
	"region:cn:baidu":                 "BIDU",
	"region:in:infosys":               "INFY",
	"region:br:petrobras":             "PBR",
	"region:ca:shopify":               "SHOP",
	"region:au:bhp":                   "BHP",
	"region:sa:saudi aramco":          "2222.SR",
}
