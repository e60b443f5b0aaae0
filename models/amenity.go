package models

type AmenityCategory string

const (
	AmenityBasic   AmenityCategory = "basic"
	AmenityComfort AmenityCategory = "comfort"
	AmenityLuxury  AmenityCategory = "luxury"
	AmenitySafety  AmenityCategory = "safety"
)

var AmenityCategoryNames = map[AmenityCategory]string{
	AmenityBasic:   "Basic Amenities",
	AmenityComfort: "Comfort & Entertainment",
	AmenityLuxury:  "Luxury Features",
	AmenitySafety:  "Safety & Security",
}

type Amenity struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category AmenityCategory `json:"category"`
}

var Amenities = []Amenity{
	{ID: "wifi", Name: "Free Wi-Fi", Category: AmenityBasic},
	{ID: "tv", Name: "Smart TV", Category: AmenityBasic},
	{ID: "ac", Name: "Air Conditioning", Category: AmenityBasic},
	{ID: "heating", Name: "Heating", Category: AmenityBasic},
	{ID: "workspace", Name: "Work Desk", Category: AmenityBasic},

	{ID: "minibar", Name: "Mini Bar", Category: AmenityComfort},
	{ID: "kitchen", Name: "Kitchenette", Category: AmenityComfort},
	{ID: "living_room", Name: "Living Area", Category: AmenityComfort},

	{ID: "room_service", Name: "24/7 Room Service", Category: AmenityLuxury},
	{ID: "premium_view", Name: "Premium View", Category: AmenityLuxury},

	{ID: "safe", Name: "In-room Safe", Category: AmenitySafety},
	{ID: "keycard", Name: "Digital Key Card", Category: AmenitySafety},
	{ID: "backup_power", Name: "Backup Power", Category: AmenitySafety},
}

func AmenityByID(id string) (Amenity, bool) {
	for _, a := range Amenities {
		if a.ID == id {
			return a, true
		}
	}
	return Amenity{}, false
}

func AmenitiesByCategory(category AmenityCategory) []Amenity {
	out := make([]Amenity, 0, len(Amenities))
	for _, a := range Amenities {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
