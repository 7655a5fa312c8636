package extranet

import (
	"slices"
	"strings"
)

// Section is a top-level area of the extranet.
type Section string

// Known sections.
const (
	SectionProperties   Section = "properties"
	SectionReservations Section = "reservations"
	SectionRates        Section = "rates"
	SectionAvailability Section = "availability"
	SectionReviews      Section = "reviews"
	SectionFinance      Section = "finance"
)

//nolint:gochecknoglobals // Immutable lookup table.
var sectionPaths = map[Section]string{
	SectionProperties:   "/hotel/hoteladmin/extranet_ng/manage/home.html",
	SectionReservations: "/hotel/hoteladmin/extranet_ng/manage/reservations.html",
	SectionRates:        "/hotel/hoteladmin/extranet_ng/manage/rates_index.html",
	SectionAvailability: "/hotel/hoteladmin/extranet_ng/manage/calendar.html",
	SectionReviews:      "/hotel/hoteladmin/extranet_ng/manage/guest_reviews.html",
	SectionFinance:      "/hotel/hoteladmin/extranet_ng/manage/finance.html",
}

// ParseSection resolves a case-insensitive section name.
func ParseSection(name string) (Section, bool) {
	section := Section(strings.ToLower(strings.TrimSpace(name)))
	_, ok := sectionPaths[section]

	return section, ok
}

// Sections returns every known section, sorted by name.
func Sections() []Section {
	sections := make([]Section, 0, len(sectionPaths))
	for section := range sectionPaths {
		sections = append(sections, section)
	}

	slices.Sort(sections)

	return sections
}

// Path returns the section path relative to the extranet base URL.
func (s Section) Path() string {
	return sectionPaths[s]
}

// Reservation is one row of the reservations table.
type Reservation struct {
	ReservationID string `json:"reservation_id" yaml:"reservation_id"`
	GuestName     string `json:"guest_name"     yaml:"guest_name"`
	CheckIn       string `json:"check_in"       yaml:"check_in"`
	CheckOut      string `json:"check_out"      yaml:"check_out"`
	Status        string `json:"status"         yaml:"status"`
}

// reservationFromCells maps table cells by position, missing cells stay empty.
func reservationFromCells(cells []string) Reservation {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}

		return ""
	}

	return Reservation{
		ReservationID: cell(0),
		GuestName:     cell(1),
		CheckIn:       cell(2),
		CheckOut:      cell(3),
		Status:        cell(4),
	}
}

// PageInfo describes the current page, mostly for debugging selectors.
type PageInfo struct {
	URL             string   `json:"url"              yaml:"url"`
	Title           string   `json:"title"            yaml:"title"`
	HasCalendar     bool     `json:"has_calendar"     yaml:"has_calendar"`
	VisibleElements []string `json:"visible_elements" yaml:"visible_elements"`
}
