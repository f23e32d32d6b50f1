// Package analytics reduces a snapshot of the order collection into
// revenue, tax and distribution metrics. Computation is pure: it takes
// value slices in and hands a plain Report snapshot out, so any rendering
// layer can recompute and discard without retained references.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

// Granularity selects the trailing window of the daily revenue trend.
type Granularity string

// List of report granularities
const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// TopItemCount is the number of entries kept in Report.TopItems.
const TopItemCount = 5

// vatRate is the Dutch reduced VAT rate for food, as parts of the
// tax-inclusive price: tax = revenue × 9/109.
var (
	vatNumerator   = decimal.NewFromInt(9)
	vatDenominator = decimal.NewFromInt(109)
)

// DateRange is an inclusive calendar-day range; time-of-day is ignored.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Options controls the eligibility window and trend granularity.
// A nil Range means "all time": eligibility then requires only completion.
type Options struct {
	Range       *DateRange
	Granularity Granularity
}

// TopItem is one entry of the best-seller list.
type TopItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DayRevenue is one calendar-day bucket of the revenue trend.
type DayRevenue struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// Report is the immutable result of one aggregation pass.
type Report struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Tax           decimal.Decimal `json:"tax"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	OrderCount    int             `json:"order_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`

	ItemCounts      map[string]int             `json:"item_counts"`
	TopItems        []TopItem                  `json:"top_items"`
	CategoryRevenue map[string]decimal.Decimal `json:"category_revenue"`

	HourCounts    [24]int                      `json:"hour_counts"`
	WeekdayCounts [7]int                       `json:"weekday_counts"`
	DeliveryCount int                          `json:"delivery_count"`
	PickupCount   int                          `json:"pickup_count"`
	MethodCounts  map[domain.PaymentMethod]int `json:"method_counts"`

	DailyTrend []DayRevenue `json:"daily_trend"`

	PeakHour   int `json:"peak_hour"`
	PeakOrders int `json:"peak_orders"`

	// ActiveCount is independent of the date range: it counts paid-or-cash
	// orders that are still in flight right now.
	ActiveCount int `json:"active_count"`
}

// LastDays returns the default reporting range: today and the six days
// before it.
func LastDays(now time.Time, days int) *DateRange {
	end := dayStart(now)
	return &DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// Compute aggregates the full order collection against the catalog.
// Orders referencing catalog items that no longer exist contribute to
// revenue but not to category totals; malformed joins are never an error.
func Compute(now time.Time, orders []domain.Order, catalog []domain.MenuItem, opts Options) Report {
	r := Report{
		ItemCounts:      make(map[string]int),
		CategoryRevenue: make(map[string]decimal.Decimal),
		MethodCounts:    make(map[domain.PaymentMethod]int),
		Revenue:         decimal.Zero,
		Tax:             decimal.Zero,
		NetRevenue:      decimal.Zero,
		AvgOrderValue:   decimal.Zero,
	}

	categoryByItem := make(map[string]string, len(catalog))
	for _, m := range catalog {
		categoryByItem[m.ID] = m.Category
	}

	r.ActiveCount = ActiveCount(orders)

	var itemOrder []string

	for i := range orders {
		o := &orders[i]

		if !eligible(o, opts.Range) {
			continue
		}

		r.Revenue = r.Revenue.Add(o.Total())
		r.OrderCount++

		hour := o.CreatedAt.Hour()
		r.HourCounts[hour]++
		r.WeekdayCounts[int(o.CreatedAt.Weekday())]++

		if o.Delivery.Type == domain.DeliveryTypeDelivery {
			r.DeliveryCount++
		} else {
			r.PickupCount++
		}
		r.MethodCounts[o.Payment.Method]++

		for _, it := range o.Items {
			if _, ok := r.ItemCounts[it.Name]; !ok {
				itemOrder = append(itemOrder, it.Name)
			}
			r.ItemCounts[it.Name] += it.Quantity

			if cat, ok := categoryByItem[it.MenuItemID]; ok {
				line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
				r.CategoryRevenue[cat] = revenueOf(r.CategoryRevenue, cat).Add(line)
			}
		}
	}

	r.Tax = r.Revenue.Mul(vatNumerator).Div(vatDenominator).Round(2)
	r.NetRevenue = r.Revenue.Sub(r.Tax)
	if r.OrderCount > 0 {
		r.AvgOrderValue = r.Revenue.Div(decimal.NewFromInt(int64(r.OrderCount))).Round(2)
	}

	r.TopItems = topItems(r.ItemCounts, itemOrder)
	r.PeakHour, r.PeakOrders = peakHour(r.HourCounts)
	r.DailyTrend = dailyTrend(now, orders, trendDays(opts.Granularity))

	return r
}

// ActiveCount counts paid-or-cash orders still in flight. It backs the
// live in-flight badge, which must reflect current state regardless of any
// report range.
func ActiveCount(orders []domain.Order) int {
	n := 0
	for i := range orders {
		if orders[i].CountsTowardRevenue() && !orders[i].Status.Terminal() {
			n++
		}
	}
	return n
}

// eligible applies the analytics predicate: acceptable payment, completed,
// and created within the range when one is set.
func eligible(o *domain.Order, rng *DateRange) bool {
	if !o.CountsTowardRevenue() {
		return false
	}
	if o.Status != domain.StatusCompleted {
		return false
	}
	if rng == nil {
		return true
	}
	from := dayStart(rng.Start)
	until := dayStart(rng.End).AddDate(0, 0, 1)
	return !o.CreatedAt.Before(from) && o.CreatedAt.Before(until)
}

func revenueOf(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// topItems returns the TopItemCount best sellers by quantity; ties keep
// first-encounter order.
func topItems(counts map[string]int, encounterOrder []string) []TopItem {
	items := make([]TopItem, 0, len(encounterOrder))
	for _, name := range encounterOrder {
		items = append(items, TopItem{Name: name, Quantity: counts[name]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Quantity > items[j].Quantity
	})
	if len(items) > TopItemCount {
		items = items[:TopItemCount]
	}
	return items
}

// peakHour returns the busiest hour bucket; ties resolve to the lowest hour.
func peakHour(hours [24]int) (hour, orders int) {
	for h, n := range hours {
		if n > orders {
			hour, orders = h, n
		}
	}
	return hour, orders
}

func trendDays(g Granularity) int {
	if g == GranularityMonth {
		return 30
	}
	return 7
}

// dailyTrend buckets completed paid-or-cash orders per calendar day over a
// fixed trailing window, independent of the report's range filter. Days
// without sales are present with zero revenue so chart axes stay dense.
func dailyTrend(now time.Time, orders []domain.Order, days int) []DayRevenue {
	start := dayStart(now).AddDate(0, 0, -(days - 1))

	trend := make([]DayRevenue, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		trend[i] = DayRevenue{Day: day, Revenue: decimal.Zero}
		index[day.Format(time.DateOnly)] = i
	}

	for i := range orders {
		o := &orders[i]
		if o.Status != domain.StatusCompleted || !o.CountsTowardRevenue() {
			continue
		}
		pos, ok := index[o.CreatedAt.Format(time.DateOnly)]
		if !ok {
			continue
		}
		trend[pos].Revenue = trend[pos].Revenue.Add(o.Total())
		trend[pos].Orders++
	}
	return trend
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
