// =============================
// File: internal/pumpfun/types.go
// =============================
package pumpfun

// TokenMetadata - описание токена для дашборда
type TokenMetadata struct {
	Mint        string `json:"mint"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// CreatorFees - комиссии создателя по одному токену, в SOL
type CreatorFees struct {
	Collected float64 `json:"collected"`
	Unclaimed float64 `json:"unclaimed"`
}

// TokenStats - рыночная статистика токена
type TokenStats struct {
	Holders              int     `json:"holders"`
	Volume24h            float64 `json:"volume24h"`
	MarketCap            float64 `json:"marketCap"`
	PriceUSD             float64 `json:"priceUSD"`
	PriceChange24h       float64 `json:"priceChange24h"`
	BondingCurveProgress float64 `json:"bondingCurveProgress"`
	IsGraduated          bool    `json:"isGraduated"`
}

// CreatorReward - сводка по токену, созданному кошельком
type CreatorReward struct {
	Mint                 string        `json:"mint"`
	TokenInfo            TokenMetadata `json:"tokenInfo"`
	TotalFeesCollected   float64       `json:"totalFeesCollected"`
	UnclaimedFees        float64       `json:"unclaimedFees"`
	LastClaimTime        int64         `json:"lastClaimTime,omitempty"`
	TotalVolume          float64       `json:"totalVolume"`
	Holders              int           `json:"holders"`
	MarketCap            float64       `json:"marketCap"`
	PriceUSD             float64       `json:"priceUSD"`
	PriceChange24h       float64       `json:"priceChange24h"`
	BondingCurveProgress float64       `json:"bondingCurveProgress"`
	IsGraduated          bool          `json:"isGraduated"`
}

// RewardsHistory - обнаруженный вывод комиссии
type RewardsHistory struct {
	Timestamp   int64   `json:"timestamp"` // unix, секунды
	Amount      float64 `json:"amount"`
	Signature   string  `json:"signature"`
	TokenMint   string  `json:"tokenMint"`
	Description string  `json:"description"`
}

// ChartDataPoint - точка графика начислений
type ChartDataPoint struct {
	Timestamp int64   `json:"timestamp"` // unix, миллисекунды
	Value     float64 `json:"value"`
	Label     string  `json:"label"`
}

// Totals - суммы по всем токенам кошелька
type Totals struct {
	Collected     float64 `json:"collected"`
	Unclaimed     float64 `json:"unclaimed"`
	Volume        float64 `json:"volume"`
	Holders       int     `json:"holders"`
	TokensCreated int     `json:"tokensCreated"`
}

// Dashboard - полный ответ по кошельку создателя
type Dashboard struct {
	Rewards  []CreatorReward  `json:"rewards"`
	History  []RewardsHistory `json:"history"`
	Totals   Totals           `json:"totals"`
	SolPrice float64          `json:"solPrice"`
}

// EmptyDashboard возвращает обнуленный ответ с ценой SOL по умолчанию
func EmptyDashboard() Dashboard {
	return Dashboard{
		Rewards:  []CreatorReward{},
		History:  []RewardsHistory{},
		SolPrice: FallbackSolPrice,
	}
}
