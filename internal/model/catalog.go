package model

// Lifecycle is the state of a soft-deletable catalog entry.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleDisabled Lifecycle = "disabled"
)

// CatalogEntry holds the columns shared by every soft-deletable named registry
// row. The active flag is the persisted form of the entry's Lifecycle.
type CatalogEntry struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:128;not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

// Entry gives generic code access to the shared columns.
func (e *CatalogEntry) Entry() *CatalogEntry { return e }

// State maps the active flag onto the lifecycle.
func (e *CatalogEntry) State() Lifecycle {
	if e.Active {
		return LifecycleActive
	}
	return LifecycleDisabled
}

// DeviceType is a kind of repairable device (phone, tablet, laptop...).
type DeviceType struct {
	CatalogEntry
}

// Brand is a device manufacturer.
type Brand struct {
	CatalogEntry
}

// Repair is a repair operation offered by the shops.
type Repair struct {
	CatalogEntry
	// Price is a legacy list price. Quotes and the price list never read it;
	// the authoritative per-model price lives in PriceListEntry.
	Price *float64 `json:"price"`
}
