package yahoo

// rawFmt is Yahoo's number wrapper: {"raw": 0.0351, "fmt": "3.51%"}
type rawFmt struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// quoteSummaryResponse is the v10 quoteSummary envelope
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	SummaryDetail struct {
		DividendYield  *rawFmt `json:"dividendYield"`
		DividendRate   *rawFmt `json:"dividendRate"`
		ExDividendDate *struct {
			Raw int64  `json:"raw"`
			Fmt string `json:"fmt"`
		} `json:"exDividendDate"`
		MarketCap *rawFmt `json:"marketCap"`
	} `json:"summaryDetail"`

	Price struct {
		ShortName          string  `json:"shortName"`
		RegularMarketPrice *rawFmt `json:"regularMarketPrice"`
	} `json:"price"`

	DefaultKeyStatistics struct {
		LastDividendValue *rawFmt `json:"lastDividendValue"`
	} `json:"defaultKeyStatistics"`
}

// chartResponse is the v8 chart envelope
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}
