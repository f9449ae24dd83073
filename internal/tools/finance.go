package tools

import (
	"context"
	"net/url"
	"strconv"
)

const tickerOnlySchema = `{
	"type": "object",
	"properties": {
		"ticker": {"type": "string", "description": "Stock ticker symbol, e.g. AAPL"}
	},
	"required": ["ticker"]
}`

// NewRegistry builds the financial tool set over the data API.
func NewRegistry(api *APIClient) Registry {
	reg := make(Registry)
	for _, t := range []Tool{
		newStockQuoteTool(api),
		newFundamentalsTool(api),
		newProfileTool(api),
		newInsiderActivityTool(api),
		newAnalystRatingsTool(api),
	} {
		reg[t.Name] = t
	}
	return reg
}

func newStockQuoteTool(api *APIClient) Tool {
	return Tool{
		Name:        "stock_quote",
		Description: "Latest price, day change and volume for a ticker.",
		SchemaJSON:  tickerOnlySchema,
		Fn: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker := argString(args, "ticker")
			return api.getJSON(ctx, "/api/v1/quote/"+url.PathEscape(ticker), "stock_quote", ticker, nil)
		},
	}
}

func newFundamentalsTool(api *APIClient) Tool {
	return Tool{
		Name:        "company_fundamentals",
		Description: "Pre-aggregated fundamentals for a ticker: EPS, PE ratio, revenue, margins, debt ratios. Optionally narrowed to one metric and period.",
		SchemaJSON: `{
	"type": "object",
	"properties": {
		"ticker": {"type": "string", "description": "Stock ticker symbol, e.g. AAPL"},
		"metric": {"type": "string", "description": "Optional single metric, e.g. pe_ratio, eps, revenue"},
		"period": {"type": "string", "description": "Optional period, e.g. ttm, fy2024, q2-2025"}
	},
	"required": ["ticker"]
}`,
		Fn: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker := argString(args, "ticker")
			query := url.Values{}
			if m := argString(args, "metric"); m != "" {
				query.Set("metric", m)
			}
			if p := argString(args, "period"); p != "" {
				query.Set("period", p)
			}
			return api.getJSON(ctx, "/api/v1/fundamentals/"+url.PathEscape(ticker), "company_fundamentals", ticker, query)
		},
	}
}

func newProfileTool(api *APIClient) Tool {
	return Tool{
		Name:        "company_profile",
		Description: "Company name, sector, industry, market cap and description for a ticker.",
		SchemaJSON:  tickerOnlySchema,
		Fn: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker := argString(args, "ticker")
			return api.getJSON(ctx, "/api/v1/profile/"+url.PathEscape(ticker), "company_profile", ticker, nil)
		},
	}
}

func newInsiderActivityTool(api *APIClient) Tool {
	return Tool{
		Name:        "insider_activity",
		Description: "Recent insider transactions and institutional holder changes for a ticker.",
		SchemaJSON: `{
	"type": "object",
	"properties": {
		"ticker": {"type": "string", "description": "Stock ticker symbol, e.g. AAPL"},
		"limit": {"type": "integer", "description": "Max transactions to return (default 10)"}
	},
	"required": ["ticker"]
}`,
		Fn: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker := argString(args, "ticker")
			query := url.Values{}
			if v, ok := args["limit"].(float64); ok && v > 0 {
				query.Set("limit", strconv.Itoa(int(v)))
			}
			return api.getJSON(ctx, "/api/v1/insiders/"+url.PathEscape(ticker), "insider_activity", ticker, query)
		},
	}
}

func newAnalystRatingsTool(api *APIClient) Tool {
	return Tool{
		Name:        "analyst_ratings",
		Description: "Analyst consensus rating and price targets for a ticker.",
		SchemaJSON:  tickerOnlySchema,
		Fn: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker := argString(args, "ticker")
			return api.getJSON(ctx, "/api/v1/ratings/"+url.PathEscape(ticker), "analyst_ratings", ticker, nil)
		},
	}
}
