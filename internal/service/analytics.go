package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"

	"github.com/shopspring/decimal"
)

const (
	recentOrdersLimit = 10
	salesSeriesDays   = 7
	newUserWindow     = 30 * 24 * time.Hour
)

type AnalyticsService struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
	loc   *time.Location
}

func NewAnalyticsService(st *store.Store, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: st, log: log.With("component", "analytics"), now: time.Now, loc: time.Local}
}

type DashboardStats struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalOrders   int             `json:"totalOrders"`
	TotalUsers    int64           `json:"totalUsers"`
	TotalProducts int64           `json:"totalProducts"`
	NewUsersCount int             `json:"newUsersCount"`
}

type ProductSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type DaySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

type NewUser struct {
	ID        uint      `json:"id"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Dashboard struct {
	Stats          DashboardStats                         `json:"stats"`
	SalesByStatus  map[models.OrderStatus]decimal.Decimal `json:"salesByStatus"`
	OrdersByStatus map[models.OrderStatus]int             `json:"ordersByStatus"`
	SalesByProduct []ProductSales                         `json:"salesByProduct"`
	RecentOrders   []models.Order                         `json:"recentOrders"`
	SalesOverTime  []DaySales                             `json:"salesOverTime"`
	NewUsers       []NewUser                              `json:"newUsers"`
}

// Dashboard aggregates every order, user and product on each call. The reads
// are not isolated from concurrent writes.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := s.store.ListOrders(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	userCount, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	productCount, err := s.store.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	d := &Dashboard{
		SalesByStatus:  map[models.OrderStatus]decimal.Decimal{},
		OrdersByStatus: map[models.OrderStatus]int{},
		SalesByProduct: []ProductSales{},
		RecentOrders:   []models.Order{},
		NewUsers:       []NewUser{},
	}
	d.Stats.TotalOrders = len(orders)
	d.Stats.TotalUsers = userCount
	d.Stats.TotalProducts = productCount

	byProduct := map[string]*ProductSales{}
	for _, o := range orders {
		d.Stats.TotalSales = d.Stats.TotalSales.Add(o.TotalAmount)
		d.SalesByStatus[o.Status] = d.SalesByStatus[o.Status].Add(o.TotalAmount)
		d.OrdersByStatus[o.Status]++

		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductName]
			if !ok {
				ps = &ProductSales{Name: it.ProductName}
				byProduct[it.ProductName] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.Subtotal)
		}
	}
	for _, ps := range byProduct {
		d.SalesByProduct = append(d.SalesByProduct, *ps)
	}
	sort.SliceStable(d.SalesByProduct, func(i, j int) bool {
		a, b := d.SalesByProduct[i], d.SalesByProduct[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})

	if len(orders) > recentOrdersLimit {
		d.RecentOrders = orders[:recentOrdersLimit]
	} else {
		d.RecentOrders = append(d.RecentOrders, orders...)
	}

	now := s.now().In(s.loc)
	d.SalesOverTime = salesSeries(orders, now, s.loc)

	cutoff := now.Add(-newUserWindow)
	for _, u := range users {
		if !u.CreatedAt.Before(cutoff) {
			d.NewUsers = append(d.NewUsers, NewUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt})
		}
	}
	d.Stats.NewUsersCount = len(d.NewUsers)
	return d, nil
}

// salesSeries buckets orders into the last seven local calendar days, oldest
// first, today included.
func salesSeries(orders []models.Order, now time.Time, loc *time.Location) []DaySales {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	series := make([]DaySales, 0, salesSeriesDays)
	for i := salesSeriesDays - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)
		day := DaySales{Date: start.Format("2006-01-02")}
		for _, o := range orders {
			t := o.CreatedAt.In(loc)
			if !t.Before(start) && t.Before(end) {
				day.Sales = day.Sales.Add(o.TotalAmount)
				day.Orders++
			}
		}
		series = append(series, day)
	}
	return series
}

type SalesSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	ProductsSold      int             `json:"products_sold"`
}

type SalesReport struct {
	From         string         `json:"from"`
	To           string         `json:"to"`
	Summary      SalesSummary   `json:"summary"`
	Transactions []models.Order `json:"transactions"`
}

// SalesReport summarises non-cancelled orders placed between two local
// calendar days, both inclusive. Empty bounds default to the last 30 days.
func (s *AnalyticsService) SalesReport(ctx context.Context, startDate, endDate string) (*SalesReport, error) {
	const layout = "2006-01-02"
	today := s.now().In(s.loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)

	from, to := today.AddDate(0, 0, -29), today
	var err error
	if startDate != "" {
		if from, err = time.ParseInLocation(layout, startDate, s.loc); err != nil {
			return nil, Validation("start_date must be in YYYY-MM-DD format")
		}
	}
	if endDate != "" {
		if to, err = time.ParseInLocation(layout, endDate, s.loc); err != nil {
			return nil, Validation("end_date must be in YYYY-MM-DD format")
		}
	}
	if to.Before(from) {
		return nil, Validation("end_date must not be before start_date")
	}

	// Filtered in Go: SQLite compares stored timestamps as text.
	orders, err := s.store.ListOrders(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	end := to.AddDate(0, 0, 1)
	r := &SalesReport{From: from.Format(layout), To: to.Format(layout), Transactions: []models.Order{}}
	for _, o := range orders {
		t := o.CreatedAt.In(s.loc)
		if o.Status == models.StatusCancelled || t.Before(from) || !t.Before(end) {
			continue
		}
		r.Transactions = append(r.Transactions, o)
		r.Summary.TotalRevenue = r.Summary.TotalRevenue.Add(o.TotalAmount)
		r.Summary.TotalTransactions++
		for _, it := range o.Items {
			r.Summary.ProductsSold += it.Quantity
		}
	}
	return r, nil
}
