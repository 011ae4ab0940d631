package model

// PriceListEntry is the price of one repair on one model.
type PriceListEntry struct {
	ID       int64   `gorm:"primaryKey" json:"id"`
	ModelID  int64   `gorm:"not null;uniqueIndex:idx_model_repair" json:"model_id"`
	RepairID int64   `gorm:"not null;uniqueIndex:idx_model_repair;index" json:"repair_id"`
	Price    float64 `gorm:"not null" json:"price"`
}

// TableName keeps the historical table name.
func (PriceListEntry) TableName() string { return "model_repairs" }

// PriceListItem is a price-list entry joined with its repair name.
type PriceListItem struct {
	ID       int64   `json:"id"`
	ModelID  int64   `json:"model_id"`
	RepairID int64   `json:"repair_id"`
	Repair   string  `json:"repair"`
	Price    float64 `json:"price"`
}
