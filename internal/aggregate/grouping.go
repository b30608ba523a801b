package aggregate

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"fleetreport/internal/domain/models"
	"fleetreport/internal/utils"
)

// CustomerKey identifies the customer of a trip: its id when known,
// otherwise its name.
func CustomerKey(t models.TripRecord) string {
	id := t.CustomerID
	if id == 0 {
		id = t.Customer.ID
	}
	if id > 0 {
		return "id:" + strconv.FormatInt(id, 10)
	}
	return "name:" + strings.TrimSpace(t.Customer.Name)
}

// DateRangeOf is the formatted departure/return range used as a group key.
func DateRangeOf(t models.TripRecord) string {
	return utils.DateRangeLabel(t.DepartureDate, t.ReturnDate)
}

// CustomerTrips are the trips of one customer.
type CustomerTrips struct {
	Key      string              `json:"key"`
	Customer models.Customer     `json:"customer"`
	Trips    []models.TripRecord `json:"trips"`
}

// GroupTripsByCustomer buckets trips by customer, in customer name order.
func GroupTripsByCustomer(trips []models.TripRecord) []CustomerTrips {
	index := map[string]int{}
	out := []CustomerTrips{}
	for _, t := range trips {
		key := CustomerKey(t)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CustomerTrips{Key: key, Customer: customerOf(t)})
		}
		out[i].Trips = append(out[i].Trips, t)
	}
	sortCustomers(out)
	return out
}

// DateRangeGroup holds the trips sharing a date range and document number,
// split per customer.
type DateRangeGroup struct {
	DateRange      string          `json:"dateRange"`
	DocumentNumber string          `json:"documentNumber"`
	Customers      []CustomerTrips `json:"customers"`

	first time.Time
}

// GroupCustomersByDateRange is the two-level grouping of the report:
// (date range, document number) then customer. Every trip lands in exactly
// one leaf. Groups are ordered by earliest departure.
func GroupCustomersByDateRange(trips []models.TripRecord) []DateRangeGroup {
	type outerKey struct{ dateRange, doc string }
	outerIndex := map[outerKey]int{}
	innerIndex := []map[string]int{}
	out := []DateRangeGroup{}

	for _, t := range trips {
		ok := outerKey{dateRange: DateRangeOf(t), doc: strings.TrimSpace(t.DocumentNumber)}
		gi, found := outerIndex[ok]
		if !found {
			gi = len(out)
			outerIndex[ok] = gi
			out = append(out, DateRangeGroup{DateRange: ok.dateRange, DocumentNumber: ok.doc, first: t.DepartureDate})
			innerIndex = append(innerIndex, map[string]int{})
		}
		g := &out[gi]
		if t.DepartureDate.Before(g.first) {
			g.first = t.DepartureDate
		}
		ck := CustomerKey(t)
		ci, found := innerIndex[gi][ck]
		if !found {
			ci = len(g.Customers)
			innerIndex[gi][ck] = ci
			g.Customers = append(g.Customers, CustomerTrips{Key: ck, Customer: customerOf(t)})
		}
		g.Customers[ci].Trips = append(g.Customers[ci].Trips, t)
	}

	for i := range out {
		sortCustomers(out[i].Customers)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].first.Before(out[j].first)
	})
	return out
}

// ReportGroup is one report row: trips with the same date range, document
// number and customer.
type ReportGroup struct {
	DateRange      string              `json:"dateRange"`
	DocumentNumber string              `json:"documentNumber"`
	CustomerKey    string              `json:"customerKey"`
	Customer       models.Customer     `json:"customer"`
	Trips          []models.TripRecord `json:"trips"`
}

// ReportGroups flattens GroupCustomersByDateRange into rows.
func ReportGroups(trips []models.TripRecord) []ReportGroup {
	out := []ReportGroup{}
	for _, g := range GroupCustomersByDateRange(trips) {
		for _, c := range g.Customers {
			out = append(out, ReportGroup{
				DateRange:      g.DateRange,
				DocumentNumber: g.DocumentNumber,
				CustomerKey:    c.Key,
				Customer:       c.Customer,
				Trips:          c.Trips,
			})
		}
	}
	return out
}

func customerOf(t models.TripRecord) models.Customer {
	c := t.Customer
	if c.ID == 0 {
		c.ID = t.CustomerID
	}
	return c
}

func sortCustomers(list []CustomerTrips) {
	coll := newCollator()
	sort.SliceStable(list, func(i, j int) bool {
		return coll.CompareString(list[i].Customer.Name, list[j].Customer.Name) < 0
	})
}
