package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	GenderAllowedMale   = "Male"
	GenderAllowedFemale = "Female"
	GenderAllowedAll    = "All"
)

// Accommodation categories a listing can be posted under.
const (
	CategoryPG          = "PG"
	CategoryFlat        = "FLAT"
	CategoryCoLiving    = "CO_LIVING"
	CategoryDormitory   = "DORMITORY"
	CategoryDharmshala  = "DHARMSHALA"
	CategoryCouchsurfed = "COUCHSURFING"
	CategoryHotel       = "HOTEL"
	CategoryGuestHouse  = "GUEST_HOUSE"
	CategoryShortStay   = "SHORT_STAY"
)

// StringList is an ordered list of strings stored as a JSON text column.
// Works for both SQLite and PostgreSQL.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

type Listing struct {
	ID            string     `db:"id" json:"id"`
	OwnerID       string     `db:"owner_id" json:"ownerId"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Category      string     `db:"category" json:"category"`
	Subcategory   string     `db:"subcategory" json:"subcategory"`
	RoomType      string     `db:"room_type" json:"roomType,omitempty"`
	GenderAllowed string     `db:"gender_allowed" json:"genderAllowed"`
	Price         *int64     `db:"price" json:"price"`
	IsFree        bool       `db:"is_free" json:"isFree"`
	Amenities     StringList `db:"amenities" json:"amenities"`
	Locality      string     `db:"locality" json:"locality"`
	Area          string     `db:"area" json:"area,omitempty"`
	City          string     `db:"city" json:"city"`
	District      string     `db:"district" json:"district"`
	State         string     `db:"state" json:"state"`
	AvailableFrom *time.Time `db:"available_from" json:"availableFrom,omitempty"`
	Images        StringList `db:"images" json:"images"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}
