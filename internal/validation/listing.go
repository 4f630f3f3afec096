package validation

import (
	"fmt"

	"github.com/panaah/panaah/internal/model"
)

// knownCategories maps each accommodation category to its allowed subcategories.
var knownCategories = map[string][]string{
	model.CategoryPG:          {"Male PG", "Female PG", "Shared Room PG", "Private Room PG", "With Food", "Without Food"},
	model.CategoryFlat:        {"1 BHK", "2 BHK", "Shared Room", "Private Room", "Furnished", "Unfurnished"},
	model.CategoryCoLiving:    {"Private Room", "Shared Room", "Boys", "Girls", "Mixed"},
	model.CategoryDormitory:   {"4-Bed", "6-Bed", "10-Bed", "AC", "Non-AC"},
	model.CategoryDharmshala:  {"Hindu", "Jain", "All Religions", "Private Room", "Shared Room"},
	model.CategoryCouchsurfed: {"Room Sharing", "Sofa", "1–3 Days Max", "Verified Host"},
	model.CategoryHotel:       {"Single Room", "Double Room", "AC", "Non-AC", "Family Room"},
	model.CategoryGuestHouse:  {"Whole Property", "Room Only", "With Food", "Without Food"},
	model.CategoryShortStay:   {"Entire Place", "Private Room", "Studio", "Workation"},
}

// ValidateListing checks listing fields before any row is created.
func ValidateListing(l *model.Listing) error {
	if len(l.Title) < 5 {
		return Error("title must be at least 5 characters")
	}

	if len(l.Description) < 10 {
		return Error("description must be at least 10 characters")
	}

	subcategories, ok := knownCategories[l.Category]
	if !ok {
		return Error(fmt.Sprintf("unknown category: %s", l.Category))
	}

	found := false
	for _, sub := range subcategories {
		if sub == l.Subcategory {
			found = true
			break
		}
	}
	if !found {
		return Error(fmt.Sprintf("unknown subcategory %q for category %s", l.Subcategory, l.Category))
	}

	switch l.GenderAllowed {
	case model.GenderAllowedMale, model.GenderAllowedFemale, model.GenderAllowedAll:
	default:
		return Error("genderAllowed must be one of Male, Female, All")
	}

	if !l.IsFree {
		if l.Price == nil {
			return Error("price is required unless the listing is free")
		}
		if *l.Price < 0 {
			return Error("price must not be negative")
		}
	}

	if len(l.Locality) < 2 {
		return Error("locality must be at least 2 characters")
	}

	if l.City == "" || l.District == "" || l.State == "" {
		return Error("city, district and state are required")
	}

	return nil
}
