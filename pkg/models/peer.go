package models

// PeerRecord is a tagged variant: either a bare symbol awaiting resolution or
// a fully resolved comparable-company record. The CCA engine only operates on
// resolved records after an explicit resolution step.
type PeerRecord struct {
	Symbol    string  `json:"symbol"`
	Resolved  bool    `json:"resolved"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Revenue   float64 `json:"revenue,omitempty"`
	EBITDA    float64 `json:"ebitda,omitempty"`
	NetIncome float64 `json:"net_income,omitempty"`
	TotalDebt float64 `json:"total_debt,omitempty"`
	Cash      float64 `json:"cash,omitempty"`
}

// UnresolvedPeer wraps a bare ticker symbol.
func UnresolvedPeer(symbol string) PeerRecord {
	return PeerRecord{Symbol: symbol}
}

// EnterpriseValue is market cap plus total debt less cash.
func (p PeerRecord) EnterpriseValue() float64 {
	return p.MarketCap + p.TotalDebt - p.Cash
}

// Valid reports whether the peer can contribute to multiple statistics:
// resolved, strictly positive market cap and revenue, and a non-negative
// enterprise value. Invalid peers are discarded, never zero-filled.
func (p PeerRecord) Valid() bool {
	if !p.Resolved {
		return false
	}
	if p.MarketCap <= 0 || p.Revenue <= 0 {
		return false
	}
	return p.EnterpriseValue() >= 0
}
