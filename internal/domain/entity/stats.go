package entity

// FarmerStats — сводка продавца: оплаченные сделки считаются продажами.
type FarmerStats struct {
	ActiveListings int
	TotalSales     int
	Earnings       float64
	PendingBids    int
}

// BuyerStats — сводка покупателя. Активные ставки ещё ждут решения продавца или ответа на встречное предложение.
type BuyerStats struct {
	ActiveBids         int
	CompletedPurchases int
	TotalSpent         float64
}
