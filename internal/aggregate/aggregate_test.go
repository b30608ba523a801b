package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"fleetreport/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) models.Amount { return models.AmountOf(s) }

func num(v float64) models.Amount { return models.NewAmount(v) }

func TestSummarizeSingleTrip(t *testing.T) {
	trips := []models.TripRecord{{
		ID:                1,
		ActualDistance:    amt("100"),
		EstimatedDistance: num(50),
		TotalAllowance:    num(150),
	}}
	rates := models.RateConfiguration{DistanceRate: 1.2, TripFeeRate: 30}

	got := Summarize(trips, rates)

	assert.Equal(t, 1, got.TripCount)
	assert.InDelta(t, 60, got.DistanceCost, 1e-9)
	assert.InDelta(t, 30, got.TripFee, 1e-9)
	assert.InDelta(t, 240, got.DriverPayable, 1e-9)
	assert.InDelta(t, 240, got.GrandTotal, 1e-9)
	assert.InDelta(t, 100, got.Distance.Actual, 1e-9)
	assert.InDelta(t, 50, got.Distance.Delta, 1e-9)
}

func TestSummarizeMalformedDistance(t *testing.T) {
	trips := []models.TripRecord{
		{ID: 1, ActualDistance: amt("abc"), EstimatedDistance: amt("")},
		{ID: 2, ActualDistance: amt("40"), EstimatedDistance: amt("10")},
	}

	got := SumDistances(trips)

	assert.Equal(t, 40.0, got.Actual)
	assert.Equal(t, 10.0, got.Estimated)
	assert.Equal(t, 30.0, got.Delta)
}

func TestDistanceDeltaIsSignedPerTrip(t *testing.T) {
	trips := []models.TripRecord{
		{ActualDistance: num(100), EstimatedDistance: num(50)},
		{ActualDistance: num(20), EstimatedDistance: num(70)},
	}

	got := SumDistances(trips)

	assert.Equal(t, 120.0, got.Actual)
	assert.Equal(t, 120.0, got.Estimated)
	assert.Equal(t, 0.0, got.Delta)
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, models.RateConfiguration{DistanceRate: 2, TripFeeRate: 30})
	assert.Equal(t, Totals{}, got)
}

func TestCompanyExpensesAndGrandTotal(t *testing.T) {
	trips := []models.TripRecord{
		{DistanceCheckFee: amt("10"), FuelCost: amt("500.5"), TollFee: num(40), RepairCost: amt("n/a"), TotalAllowance: num(100)},
		{FuelCost: num(200), RepairCost: num(90)},
	}

	got := Summarize(trips, models.RateConfiguration{TripFeeRate: 25})

	assert.InDelta(t, 10, got.CompanyExpenses.DistanceCheckFee, 1e-9)
	assert.InDelta(t, 700.5, got.CompanyExpenses.FuelCost, 1e-9)
	assert.InDelta(t, 40, got.CompanyExpenses.TollFee, 1e-9)
	assert.InDelta(t, 90, got.CompanyExpenses.RepairCost, 1e-9)
	assert.InDelta(t, 840.5, got.CompanyExpenses.Total, 1e-9)
	assert.InDelta(t, 150, got.DriverPayable, 1e-9)
	assert.InDelta(t, 990.5, got.GrandTotal, 1e-9)
}

func TestDistanceCostIgnoresFreeThreshold(t *testing.T) {
	trips := []models.TripRecord{{EstimatedDistance: num(1000)}}
	rates := models.RateConfiguration{DistanceRate: 2, FreeDistanceThreshold: 1500}

	assert.Equal(t, 2000.0, Summarize(trips, rates).DistanceCost)
	assert.Equal(t, 0.0, rates.ThresholdDistanceCost(1000))
}

func TestSameRowTripsMergeItems(t *testing.T) {
	customer := models.Customer{ID: 9, Name: "Siam Parts"}
	rice := &models.Item{ID: 7, Code: "RC", Description: "Rice bag", Unit: "bag"}
	trips := []models.TripRecord{
		{
			ID: 1, DepartureDate: day(3), ReturnDate: day(4), DocumentNumber: "DOC-1",
			CustomerID: 9, Customer: customer,
			Items: []models.TripItem{
				{ID: 11, Quantity: num(2), TotalPrice: num(200), Item: rice},
				{ID: 12, Quantity: num(1), UnitPrice: num(50), Item: &models.Item{ID: 8, Description: "Oil"}},
			},
		},
		{
			ID: 2, DepartureDate: day(3), ReturnDate: day(4), DocumentNumber: "DOC-1",
			CustomerID: 9, Customer: customer,
			Items: []models.TripItem{
				{ID: 21, Quantity: amt("3"), UnitPrice: amt("100"), Item: rice},
			},
		},
	}

	groups := ReportGroups(trips)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Trips, 2)
	assert.Equal(t, "03/03/2025 - 04/03/2025", groups[0].DateRange)

	items := AggregateItems(groups[0].Trips)
	require.Len(t, items, 2)
	assert.Equal(t, ItemKey{Kind: KeyCatalog, Value: "7"}, items[0].Key)
	assert.Equal(t, 5.0, items[0].Quantity)
	assert.Equal(t, 500.0, items[0].TotalPrice)
	assert.Equal(t, "bag", items[0].Unit)
	assert.Equal(t, 50.0, items[1].TotalPrice)
}

func TestUnidentifiedLinesNeverMerge(t *testing.T) {
	trips := []models.TripRecord{{Items: []models.TripItem{
		{Quantity: num(1), TotalPrice: num(10)},
		{Quantity: num(1), TotalPrice: num(10)},
	}}}

	items := AggregateItems(trips)

	require.Len(t, items, 2)
	assert.Equal(t, KeyUnmergeable, items[0].Key.Kind)
	assert.NotEqual(t, items[0].Key, items[1].Key)
}

func TestKeyForFallbackOrder(t *testing.T) {
	assert.Equal(t, KeyCatalog, KeyFor(models.TripItem{ID: 3, Item: &models.Item{ID: 4}}).Kind)
	assert.Equal(t, KeyLine, KeyFor(models.TripItem{ID: 3, Item: &models.Item{Description: "Box"}}).Kind)
	assert.Equal(t, ItemKey{Kind: KeyNamed, Value: "Box"}, KeyFor(models.TripItem{Item: &models.Item{Description: "Box"}}))
	assert.Equal(t, KeyUnmergeable, KeyFor(models.TripItem{}).Kind)
}

func TestLineValue(t *testing.T) {
	assert.Equal(t, 120.0, models.TripItem{TotalPrice: num(120), UnitPrice: num(1), Quantity: num(1)}.LineValue())
	assert.Equal(t, 30.0, models.TripItem{TotalPrice: amt("0"), UnitPrice: amt("7.5"), Quantity: amt("4")}.LineValue())
	assert.Equal(t, 0.0, models.TripItem{UnitPrice: num(-5), Quantity: num(2)}.LineValue())
	assert.Equal(t, 0.0, models.TripItem{UnitPrice: amt("x"), Quantity: num(2)}.LineValue())
}

func byCustomerTrips() []models.TripRecord {
	a := models.Customer{ID: 1, Name: "Zeta Logistics"}
	b := models.Customer{ID: 2, Name: "alpha mart"}
	box := &models.Item{ID: 100, Description: "Box"}
	crate := &models.Item{ID: 200, Description: "Crate"}
	return []models.TripRecord{
		{ID: 1, CustomerID: 1, Customer: a, Items: []models.TripItem{{Quantity: num(1), TotalPrice: num(10), Item: box}}},
		{ID: 2, CustomerID: 2, Customer: b, Items: []models.TripItem{{Quantity: num(2), TotalPrice: num(20), Item: box}}},
		{ID: 3, CustomerID: 1, Customer: a, Items: []models.TripItem{{Quantity: num(4), TotalPrice: num(400), Item: crate}}},
		{ID: 4, CustomerID: 2, Customer: b, Items: []models.TripItem{{Quantity: num(3), TotalPrice: num(30), Item: box}}},
		{ID: 5, CustomerID: 1, Customer: a, Items: []models.TripItem{{Quantity: num(1), TotalPrice: num(5), Item: box}}},
	}
}

func TestAggregateItemsByCustomerOrdering(t *testing.T) {
	items := AggregateItemsByCustomer(byCustomerTrips())

	require.Len(t, items, 3)
	assert.Equal(t, "alpha mart", items[0].CustomerName)
	assert.Equal(t, 5.0, items[0].Quantity)
	assert.Equal(t, 50.0, items[0].TotalPrice)
	assert.Equal(t, "Zeta Logistics", items[1].CustomerName)
	assert.Equal(t, "200", items[1].Key.Value)
	assert.Equal(t, "100", items[2].Key.Value)
	assert.Equal(t, 15.0, items[2].TotalPrice)
}

func TestAggregateItemsByCustomerFollowsCustomerGroups(t *testing.T) {
	trips := byCustomerTrips()
	groups := GroupTripsByCustomer(trips)
	items := AggregateItemsByCustomer(trips)

	var order []int64
	for _, it := range items {
		if len(order) == 0 || order[len(order)-1] != it.CustomerID {
			order = append(order, it.CustomerID)
		}
	}
	require.Len(t, order, len(groups))
	for i, g := range groups {
		assert.Equal(t, g.Customer.ID, order[i])
	}

	rep := BuildReport(trips, models.RateConfiguration{})
	require.Len(t, rep.Vehicles, 1)
	assert.Equal(t, items, rep.Vehicles[0].CustomerItems)
}

func TestAggregateItemsByCustomerIsOrderIndependent(t *testing.T) {
	type pair struct{ qty, total float64 }
	collect := func(list []ItemSummary) map[string]pair {
		out := map[string]pair{}
		for _, it := range list {
			out[it.CustomerName+"::"+it.Key.String()] = pair{it.Quantity, it.TotalPrice}
		}
		return out
	}

	trips := byCustomerTrips()
	want := collect(AggregateItemsByCustomer(trips))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.TripRecord(nil), trips...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, collect(AggregateItemsByCustomer(shuffled)))
	}
}

func sampleTrips() []models.TripRecord {
	customers := []models.Customer{{ID: 1, Name: "Bangna Foods"}, {ID: 2, Name: "Chonburi Steel"}, {ID: 3, Name: "Ayutthaya Rice"}}
	docs := []string{"DOC-A", "DOC-B"}
	var out []models.TripRecord
	for i := 1; i <= 30; i++ {
		c := customers[i%len(customers)]
		out = append(out, models.TripRecord{
			ID:                int64(i),
			DepartureDate:     day(1 + i%4),
			ReturnDate:        day(2 + i%4),
			DocumentNumber:    docs[i%2],
			CustomerID:        c.ID,
			Customer:          c,
			ActualDistance:    num(float64(10 * i)),
			EstimatedDistance: amt("95"),
			TotalAllowance:    num(150),
			FuelCost:          num(float64(i)),
			Items:             []models.TripItem{{Quantity: num(1), TotalPrice: num(float64(i)), Item: &models.Item{ID: int64(i % 3)}}},
		})
	}
	return out
}

func TestGroupCustomersByDateRangePartitions(t *testing.T) {
	trips := sampleTrips()

	seen := map[int64]int{}
	for _, g := range GroupCustomersByDateRange(trips) {
		for _, c := range g.Customers {
			for _, trip := range c.Trips {
				seen[trip.ID]++
				assert.Equal(t, g.DateRange, DateRangeOf(trip))
				assert.Equal(t, g.DocumentNumber, trip.DocumentNumber)
				assert.Equal(t, c.Key, CustomerKey(trip))
			}
		}
	}

	require.Len(t, seen, len(trips))
	for id, n := range seen {
		assert.Equalf(t, 1, n, "trip %d appears %d times", id, n)
	}
}

func TestRegroupingKeepsTotals(t *testing.T) {
	trips := sampleTrips()
	rates := models.RateConfiguration{DistanceRate: 1.2, TripFeeRate: 30}
	want := Summarize(trips, rates)

	var flattened []models.TripRecord
	var groupPayable float64
	for _, g := range ReportGroups(trips) {
		flattened = append(flattened, g.Trips...)
		groupPayable += Summarize(g.Trips, rates).DriverPayable
	}
	got := Summarize(flattened, rates)

	assert.Equal(t, want.TripCount, got.TripCount)
	assert.InDelta(t, want.GrandTotal, got.GrandTotal, 1e-6)
	assert.InDelta(t, want.Distance.Delta, got.Distance.Delta, 1e-6)
	assert.InDelta(t, want.ItemValue, got.ItemValue, 1e-6)
	assert.InDelta(t, want.DriverPayable, groupPayable, 1e-6)
}

func TestGroupTripsByCustomer(t *testing.T) {
	groups := GroupTripsByCustomer(sampleTrips())

	require.Len(t, groups, 3)
	assert.Equal(t, "Ayutthaya Rice", groups[0].Customer.Name)
	assert.Equal(t, "Chonburi Steel", groups[2].Customer.Name)
	assert.Len(t, groups[0].Trips, 10)
}

func TestDriverResolution(t *testing.T) {
	v := &models.Vehicle{
		ID:           5,
		LicensePlate: "70-1234",
		MainDriver:   &models.Driver{Name: "Somchai"},
		BackupDriver: &models.Driver{Name: "Anan"},
	}
	trips := []models.TripRecord{
		{DriverType: models.DriverMain},
		{DriverType: models.DriverBackup},
		{DriverType: models.DriverMain, DriverName: "Pranee"},
		{DriverType: models.DriverMain},
		{DriverType: models.DriverOther},
	}

	assert.ElementsMatch(t, []string{"Somchai", "Anan", "Pranee"}, VehicleDrivers(trips, v))

	for i := range trips {
		trips[i].Vehicle = v
	}
	assert.ElementsMatch(t, []string{"Somchai", "Anan", "Pranee"}, CustomerDrivers(trips))
	assert.Empty(t, CustomerDrivers([]models.TripRecord{{DriverType: models.DriverMain}}))
}

func TestBuildReport(t *testing.T) {
	vid := int64(5)
	v := &models.Vehicle{ID: vid, LicensePlate: "70-1234", MainDriver: &models.Driver{Name: "Somchai"}}
	trips := sampleTrips()
	for i := range trips {
		if i%2 == 0 {
			trips[i].VehicleID = &vid
			trips[i].Vehicle = v
		}
	}
	rates := models.RateConfiguration{DistanceRate: 1.2, TripFeeRate: 30}

	rep := BuildReport(trips, rates)

	require.Len(t, rep.Vehicles, 2)
	assert.Equal(t, "70-1234", rep.Vehicles[0].Label)
	assert.Equal(t, UnassignedVehicle, rep.Vehicles[1].Label)
	assert.Equal(t, []string{"Somchai"}, rep.Vehicles[0].Drivers)

	var count int
	var grand float64
	for _, vr := range rep.Vehicles {
		var vehicleGrand float64
		for _, g := range vr.Groups {
			count += g.Totals.TripCount
			vehicleGrand += g.Totals.GrandTotal
		}
		assert.InDelta(t, vr.Totals.GrandTotal, vehicleGrand, 1e-6)
		grand += vr.Totals.GrandTotal
	}
	assert.Equal(t, len(trips), count)
	assert.InDelta(t, rep.Totals.GrandTotal, grand, 1e-6)
	assert.Equal(t, len(ReportGroups(trips[0:1])), 1)
	assert.Positive(t, rep.GroupCount())
}
