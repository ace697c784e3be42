package app

import (
	"strconv"
	"strings"

	"palmnazi/internal/domain"
)

/********** alias registries (single source of truth) **********/

var propertyAliases = map[string][]string{
	"name":        {"name", "title", "property_name", "hotel_name"},
	"email":       {"email", "contact_email", "contact.email"},
	"phone":       {"phone", "contact_phone", "telephone", "contact.phone"},
	"description": {"description", "summary", "about"},
	"address":     {"address", "location.address", "formatted_address", "full_address"},
}

var roomAliases = map[string][]string{
	"label": {"roomType", "room_type", "type", "label", "name"},
}

var (
	propertyImagePaths = []string{"imageUrls", "images", "photos"}
	roomListPaths      = []string{"servicesOffered", "rooms", "room_types"}
	roomPricePaths     = []string{"pricePerNight", "price_per_night", "price", "rate", "nightly_rate"}
	roomAmenityPaths   = []string{"amenities", "facilities"}
	roomImagePaths     = []string{"images", "photos", "imageUrls"}
	latPaths           = []string{"lat", "latitude", "location.lat", "geo.lat"}
	lngPaths           = []string{"lng", "lon", "longitude", "location.lng", "location.lon", "geo.lng"}
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					for _, f := range []string{"url", "src", "name"} {
						if u, ok := t[f].(string); ok && u != "" {
							out = append(out, u)
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// firstObjects returns the first path holding a list of objects; a single
// object is treated as a list of one.
func firstObjects(m map[string]any, paths ...string) []map[string]any {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case []any:
			out := make([]map[string]any, 0, len(v))
			for _, it := range v {
				if o, ok := it.(map[string]any); ok {
					out = append(out, o)
				}
			}
			if len(out) > 0 {
				return out
			}
		case map[string]any:
			return []map[string]any{v}
		}
	}
	return nil
}

// amenitiesFlexible accepts "WiFi, AC" as well as ["WiFi","AC"].
func amenitiesFlexible(m map[string]any, paths ...string) domain.AmenitySet {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if set := domain.ParseAmenities(v); len(set) > 0 {
				return set
			}
		case []any:
			if tags := firstSliceStrings(m, k); len(tags) > 0 {
				return domain.NewAmenitySet(tags...)
			}
		}
	}
	return domain.AmenitySet{}
}

/********** import mapper **********/

// MapImportRecord converts one loosely shaped feed object into a Property.
// The result is not validated; CatalogService.Create does that.
func MapImportRecord(p map[string]any) domain.Property {
	out := domain.Property{
		Name:        firstNonEmptyAlias(p, propertyAliases, "name"),
		Email:       firstNonEmptyAlias(p, propertyAliases, "email"),
		Phone:       firstNonEmptyAlias(p, propertyAliases, "phone"),
		Description: firstNonEmptyAlias(p, propertyAliases, "description"),
		ImageURLs:   firstSliceStrings(p, propertyImagePaths...),
		Locations:   mapLocations(p),
	}
	for _, r := range firstObjects(p, roomListPaths...) {
		out.Rooms = append(out.Rooms, mapRoom(r))
	}
	return out
}

func mapRoom(r map[string]any) domain.RoomType {
	room := domain.RoomType{
		Label:     firstNonEmptyAlias(r, roomAliases, "label"),
		Amenities: amenitiesFlexible(r, roomAmenityPaths...),
		Images:    firstSliceStrings(r, roomImagePaths...),
	}
	if f := getFloatFlexible(r, roomPricePaths...); f != nil {
		room.PricePerNight = *f
	}
	return room
}

func mapLocations(p map[string]any) []domain.Location {
	var out []domain.Location
	if objs, ok := lookupAny(p, "location").([]any); ok {
		for _, it := range objs {
			o, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if l, ok := mapLocation(o); ok {
				out = append(out, l)
			}
		}
		return out
	}
	if l, ok := mapLocation(p); ok {
		out = append(out, l)
	}
	return out
}

func mapLocation(m map[string]any) (domain.Location, bool) {
	lat, lng := getFloatFlexible(m, latPaths...), getFloatFlexible(m, lngPaths...)
	if lat == nil || lng == nil {
		return domain.Location{}, false
	}
	return domain.Location{
		Lat:      *lat,
		Lng:      *lng,
		Address:  firstNonEmptyAlias(m, propertyAliases, "address"),
		ShareURL: lookupStr(m, "shareUrl"),
	}, true
}
