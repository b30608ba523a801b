package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"fleetreport/internal/domain/models"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// KeyKind says how an item line was identified for merging.
type KeyKind int

const (
	KeyCatalog KeyKind = iota + 1
	KeyLine
	KeyNamed
	// KeyUnmergeable lines carry a fresh id and never merge with anything,
	// including themselves across calls.
	KeyUnmergeable
)

// ItemKey is the merge identity of an item line.
type ItemKey struct {
	Kind  KeyKind `json:"kind"`
	Value string  `json:"value"`
}

func (k ItemKey) String() string {
	switch k.Kind {
	case KeyCatalog:
		return "item:" + k.Value
	case KeyLine:
		return "line:" + k.Value
	case KeyNamed:
		return "name:" + k.Value
	default:
		return "unmergeable:" + k.Value
	}
}

// KeyFor prefers the catalog id, then the line id, then the item name.
func KeyFor(ti models.TripItem) ItemKey {
	if ti.Item != nil && ti.Item.ID > 0 {
		return ItemKey{Kind: KeyCatalog, Value: strconv.FormatInt(ti.Item.ID, 10)}
	}
	if ti.ID > 0 {
		return ItemKey{Kind: KeyLine, Value: strconv.FormatInt(ti.ID, 10)}
	}
	if name := strings.TrimSpace(ti.Name()); name != "" {
		return ItemKey{Kind: KeyNamed, Value: name}
	}
	return ItemKey{Kind: KeyUnmergeable, Value: uuid.NewString()}
}

// ItemSummary is one merged item line.
type ItemSummary struct {
	Key          ItemKey `json:"key"`
	CustomerID   int64   `json:"customerId,omitempty"`
	CustomerName string  `json:"customerName,omitempty"`
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice"`
}

func newSummary(key ItemKey, ti models.TripItem) *ItemSummary {
	s := &ItemSummary{Key: key, Unit: ti.Unit, Description: ti.Name()}
	if ti.Item != nil {
		s.Code = ti.Item.Code
		if s.Unit == "" {
			s.Unit = ti.Item.Unit
		}
	}
	return s
}

// AggregateItems merges the item lines of trips by KeyFor, accumulating
// quantity and line value. Result is sorted by TotalPrice, highest first.
func AggregateItems(trips []models.TripRecord) []ItemSummary {
	index := map[ItemKey]*ItemSummary{}
	order := []ItemKey{}
	for _, t := range trips {
		for _, ti := range t.Items {
			key := KeyFor(ti)
			s, ok := index[key]
			if !ok {
				s = newSummary(key, ti)
				index[key] = s
				order = append(order, key)
			}
			s.Quantity += ti.Quantity.NonNegative()
			s.TotalPrice += ti.LineValue()
		}
	}

	out := make([]ItemSummary, 0, len(order))
	for _, k := range order {
		out = append(out, *index[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice > out[j].TotalPrice
	})
	return out
}

// AggregateItemsByCustomer merges like AggregateItems but keeps customers
// apart. Customers come in GroupTripsByCustomer order, and each customer's
// lines by TotalPrice, highest first.
func AggregateItemsByCustomer(trips []models.TripRecord) []ItemSummary {
	out := []ItemSummary{}
	for _, c := range GroupTripsByCustomer(trips) {
		for _, s := range AggregateItems(c.Trips) {
			s.CustomerID = c.Customer.ID
			s.CustomerName = c.Customer.Name
			out = append(out, s)
		}
	}
	return out
}

// Collation follows the fleet's locale. A Collator is not safe for
// concurrent use, so each call builds its own.
var collationTag = language.Thai

func newCollator() *collate.Collator {
	return collate.New(collationTag, collate.IgnoreCase)
}
