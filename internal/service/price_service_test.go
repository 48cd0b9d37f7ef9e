package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
)

type priceServiceFixture struct {
	priceRepo        *mockPriceRepository
	catalogRepo      *mockCatalogRepository
	userRepo         *mockUserRepository
	alertRepo        *mockAlertRepository
	notificationRepo *mockNotificationRepository
	svc              PriceService
}

func newPriceServiceFixture() *priceServiceFixture {
	f := &priceServiceFixture{
		priceRepo:        newMockPriceRepository(),
		catalogRepo:      newMockCatalogRepository(),
		userRepo:         newMockUserRepository(),
		alertRepo:        newMockAlertRepository(),
		notificationRepo: newMockNotificationRepository(),
	}
	f.svc = NewPriceService(f.priceRepo, f.catalogRepo, f.userRepo, f.alertRepo, f.notificationRepo)

	f.userRepo.add(&domain.User{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: domain.RoleUser, Points: 50})
	f.catalogRepo.sellables["sp-1"] = &repository.SellableProductRow{
		SellableProduct: domain.SellableProduct{
			ID:            "sp-1",
			ProductID:     "prod-milk",
			BrandID:       "brand-x",
			SupermarketID: "sm-1",
		},
		ProductName:     "Milk",
		BrandName:       "Happy Cow",
		SupermarketName: "Test Market",
	}
	return f
}

func TestPriceService_Create(t *testing.T) {
	t.Run("records report and awards points", func(t *testing.T) {
		f := newPriceServiceFixture()

		resp, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             12.50,
			Quantity:          2,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if len(f.priceRepo.created) != 1 {
			t.Fatalf("created %d prices, want 1", len(f.priceRepo.created))
		}
		if resp.UnitPrice != 6.25 {
			t.Errorf("UnitPrice = %v, want 6.25", resp.UnitPrice)
		}
		if resp.ProductName != "Milk" || resp.BrandName != "Happy Cow" || resp.SupermarketName != "Test Market" {
			t.Errorf("catalog names not joined: %+v", resp)
		}
		if resp.ReportedBy == nil || *resp.ReportedBy != "Ana" {
			t.Errorf("ReportedBy = %v, want Ana", resp.ReportedBy)
		}

		user, _ := f.userRepo.GetByID(context.Background(), "u1")
		if user.Points != 50+domain.PointsPriceReport {
			t.Errorf("points = %d, want %d", user.Points, 50+domain.PointsPriceReport)
		}
		entries := f.userRepo.history["u1"]
		if len(entries) != 1 || entries[0].Reason != "price report" {
			t.Errorf("point history = %v, want one price report entry", entries)
		}
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		f := newPriceServiceFixture()

		resp, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             9.90,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if resp.Quantity != 1 {
			t.Errorf("Quantity = %v, want 1", resp.Quantity)
		}
		if resp.UnitPrice != 9.90 {
			t.Errorf("UnitPrice = %v, want 9.90", resp.UnitPrice)
		}
	})

	t.Run("unknown sellable product", func(t *testing.T) {
		f := newPriceServiceFixture()

		_, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "missing",
			Price:             5,
		})
		if err != domain.ErrSellableProductNotFound {
			t.Errorf("Create() error = %v, want ErrSellableProductNotFound", err)
		}
		if len(f.priceRepo.created) != 0 {
			t.Error("price was stored for an unknown sellable product")
		}
	})

	t.Run("points failure does not fail the report", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.userRepo.pointsError = fmt.Errorf("ledger down")

		_, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             5,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.priceRepo.created) != 1 {
			t.Errorf("created %d prices, want 1", len(f.priceRepo.created))
		}
	})
}

func TestPriceService_AlertTriggering(t *testing.T) {
	target := func(v float64) *float64 { return &v }
	previousAt := func(f *priceServiceFixture, price float64) {
		f.priceRepo.latestBySellable["sp-1"] = &domain.Price{
			ID: "old", SellableProductID: "sp-1", Price: price, Quantity: 1, CreatedAt: time.Now().Add(-time.Hour),
		}
	}

	t.Run("below alert fires under target", func(t *testing.T) {
		f := newPriceServiceFixture()
		alert := &domain.Alert{ID: "a1", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10)}
		f.alertRepo.alerts[alert.ID] = alert
		f.alertRepo.matching = []domain.Alert{*alert}
		previousAt(f, 12)

		_, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             8.40,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if len(f.notificationRepo.notifications) != 1 {
			t.Fatalf("got %d notifications, want 1", len(f.notificationRepo.notifications))
		}
		n := f.notificationRepo.notifications[0]
		if n.UserID != "watcher" {
			t.Errorf("notification for %q, want watcher", n.UserID)
		}
		if n.Title != "Price alert" || n.Type != domain.NotificationPriceAlert {
			t.Errorf("notification header = %q/%q", n.Title, n.Type)
		}
		want := "Milk (Happy Cow) at Test Market is now 8.40"
		if n.Message != want {
			t.Errorf("Message = %q, want %q", n.Message, want)
		}
		if len(f.alertRepo.triggered) != 1 || f.alertRepo.triggered[0] != "a1" {
			t.Errorf("triggered = %v, want [a1]", f.alertRepo.triggered)
		}
	})

	t.Run("price exactly at target fires", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a1", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10)}}
		previousAt(f, 12)

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             10,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 1 {
			t.Errorf("got %d notifications, want 1", len(f.notificationRepo.notifications))
		}
	})

	t.Run("below alert stays quiet above target", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a1", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10)}}
		previousAt(f, 12)

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             11,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 0 {
			t.Errorf("got %d notifications, want 0", len(f.notificationRepo.notifications))
		}
	})

	t.Run("first report never fires", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a1", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10)}}

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             8.40,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 0 {
			t.Error("alert fired on the first report for a sellable product")
		}
	})

	t.Run("above alert fires over target", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a2", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertAbove, TargetPrice: target(10)}}
		previousAt(f, 9)

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             12,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 1 {
			t.Errorf("got %d notifications, want 1", len(f.notificationRepo.notifications))
		}
	})

	t.Run("any_change needs a previous report", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a3", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertAnyChange}}

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             8,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 0 {
			t.Error("any_change fired with no previous report")
		}
	})

	t.Run("any_change fires on a moved price", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a3", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertAnyChange}}
		previousAt(f, 10)

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             8,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 1 {
			t.Errorf("got %d notifications, want 1", len(f.notificationRepo.notifications))
		}
	})

	t.Run("sub-cent wiggle silences every alert type", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{
			{ID: "a3", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertAnyChange},
			{ID: "a4", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10.5)},
		}
		previousAt(f, 10.005)

		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             10.001,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 0 {
			t.Error("alert fired on a sub-cent move")
		}
	})

	t.Run("reported price is compared, not unit price", func(t *testing.T) {
		f := newPriceServiceFixture()
		f.alertRepo.matching = []domain.Alert{{ID: "a1", UserID: "watcher", ProductID: "prod-milk", Type: domain.AlertBelow, TargetPrice: target(10)}}
		previousAt(f, 13)

		// 12 for a pack of two: unit price 6 is under the target but
		// the reported price is not.
		if _, err := f.svc.Create(context.Background(), "u1", &dto.PriceCreateRequest{
			SellableProductID: "sp-1",
			Price:             12,
			Quantity:          2,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(f.notificationRepo.notifications) != 0 {
			t.Errorf("got %d notifications, want 0", len(f.notificationRepo.notifications))
		}
	})
}

func TestPriceService_Latest(t *testing.T) {
	f := newPriceServiceFixture()
	f.catalogRepo.products["prod-milk"] = &domain.Product{ID: "prod-milk", Name: "Milk"}

	t.Run("no reports yet", func(t *testing.T) {
		resp, err := f.svc.Latest(context.Background(), "prod-milk", "")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if resp.Price != nil {
			t.Errorf("Price = %v, want nil", resp.Price)
		}
		if resp.Message == nil || *resp.Message != "No prices reported yet" {
			t.Errorf("Message = %v, want no-prices message", resp.Message)
		}
	})

	t.Run("latest report", func(t *testing.T) {
		f.priceRepo.latestForProduct["prod-milk"] = &domain.Price{
			ID: "p1", SellableProductID: "sp-1", Price: 15, Quantity: 3, CreatedAt: time.Now(),
		}
		resp, err := f.svc.Latest(context.Background(), "prod-milk", "")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if resp.Price == nil || *resp.Price != 15 {
			t.Errorf("Price = %v, want 15", resp.Price)
		}
		if resp.UnitPrice == nil || *resp.UnitPrice != 5 {
			t.Errorf("UnitPrice = %v, want 5", resp.UnitPrice)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if _, err := f.svc.Latest(context.Background(), "missing", ""); err != domain.ErrProductNotFound {
			t.Errorf("Latest() error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestPriceService_List(t *testing.T) {
	f := newPriceServiceFixture()
	reporter := "Ana"
	f.priceRepo.rows = []repository.PriceRow{
		{
			Price:           domain.Price{ID: "p2", SellableProductID: "sp-1", Price: 9, Quantity: 1, CreatedAt: time.Now()},
			ProductName:     "Milk",
			BrandName:       "Happy Cow",
			SupermarketName: "Test Market",
			ReporterName:    &reporter,
		},
	}

	out, err := f.svc.List(context.Background(), "sp-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	if out[0].ProductName != "Milk" || out[0].ReportedBy == nil || *out[0].ReportedBy != "Ana" {
		t.Errorf("row = %+v, want joined names", out[0])
	}
}
