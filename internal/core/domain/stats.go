package domain

// DeliveryStats aggregates one delivery method.
type DeliveryStats struct {
	Count       int64 `json:"count"`
	TotalAmount int64 `json:"total_amount"` // cents, SUCCESS only
}

// DashboardStats holds the issuer's aggregate figures.
type DashboardStats struct {
	TotalTransactions int64                            `json:"total_transactions"`
	Successful        int64                            `json:"successful"`
	Pending           int64                            `json:"pending"`
	Failed            int64                            `json:"failed"`
	Voided            int64                            `json:"voided"`
	TotalPaid         int64                            `json:"total_paid"` // cents, SUCCESS only
	ByDelivery        map[DeliveryMethod]DeliveryStats `json:"by_delivery"`
}
