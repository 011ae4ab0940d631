package model

// DeviceModel is a specific device model, scoped to one device type and one
// brand. It has no lifecycle: it is either deleted before any price-list
// reference exists or kept forever.
type DeviceModel struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	DeviceTypeID int64  `gorm:"index;not null" json:"device_type_id"`
	BrandID      int64  `gorm:"index;not null" json:"brand_id"`
}

// TableName keeps the historical table name.
func (DeviceModel) TableName() string { return "models" }
