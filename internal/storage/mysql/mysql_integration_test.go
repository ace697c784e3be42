//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"palmnazi/internal/domain"
	mysqlrepo "palmnazi/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=palmnazi",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/palmnazi?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRepo_MySQL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("properties", func(t *testing.T) {
		p := domain.Property{
			ID: "p-1", Name: "Sea View Lodge", Email: "owner@seaview.test", Phone: "+254700000000",
			Locations: []domain.Location{{Lat: -4.28, Lng: 39.59, Address: "Diani", ShareURL: domain.MapsURL(-4.28, 39.59)}},
			ImageURLs: []string{"https://cdn.test/properties/1_front.jpg"},
			Rooms: []domain.RoomType{{
				Label: "Deluxe", PricePerNight: 120, Amenities: domain.ParseAmenities("WiFi, AC"),
				Images: []string{"https://cdn.test/rooms/1_deluxe.jpg"},
			}},
			CreatedAt: now, UpdatedAt: now,
		}
		if err := repo.CreateProperty(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetProperty(ctx, "p-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != p.Name || len(got.Locations) != 1 || got.Locations[0].Address != "Diani" {
			t.Fatalf("unexpected property %+v", got)
		}
		if len(got.Rooms) != 1 || got.Rooms[0].Amenities.String() != "WiFi, AC" || got.Description != "" {
			t.Fatalf("unexpected rooms %+v", got.Rooms)
		}

		p.Name = "Sea View Lodge & Spa"
		p.UpdatedAt = now.Add(time.Hour)
		if err := repo.UpdateProperty(ctx, p); err != nil {
			t.Fatalf("update: %v", err)
		}
		// same values again: zero affected rows must still count as found
		if err := repo.UpdateProperty(ctx, p); err != nil {
			t.Fatalf("idempotent update: %v", err)
		}
		p.ID = "missing"
		if err := repo.UpdateProperty(ctx, p); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		list, err := repo.ListProperties(ctx)
		if err != nil || len(list) != 1 || list[0].Name != "Sea View Lodge & Spa" {
			t.Fatalf("list: %+v (%v)", list, err)
		}
	})

	t.Run("bookings", func(t *testing.T) {
		day := func(d int) time.Time { return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC) }
		for _, b := range []domain.Booking{
			{ID: "b-1", Name: "Jane", Email: "jane@x.test", FromDate: day(1), EndDate: day(4), People: 2, RoomType: "Deluxe", PropertyID: "p-1", CreatedAt: now, UpdatedAt: now},
			{ID: "b-2", Name: "Omar", Email: "omar@x.test", FromDate: day(10), EndDate: day(12), People: 3, PropertyID: "p-1", CreatedAt: now.Add(time.Minute), UpdatedAt: now},
		} {
			if err := repo.CreateBooking(ctx, b); err != nil {
				t.Fatalf("create %s: %v", b.ID, err)
			}
		}

		stays, err := repo.ListStays(ctx, "p-1", "Deluxe", day(3), day(6))
		if err != nil || len(stays) != 1 || stays[0].ID != "b-1" {
			t.Fatalf("stays: %+v (%v)", stays, err)
		}
		stays, _ = repo.ListStays(ctx, "p-1", "Deluxe", day(4), day(6))
		if len(stays) != 0 {
			t.Fatalf("checkout day should be free: %+v", stays)
		}

		all, err := repo.ListBookings(ctx)
		if err != nil || len(all) != 2 || all[0].ID != "b-2" {
			t.Fatalf("list newest first: %+v (%v)", all, err)
		}

		// concurrent requests for the same stay: the property row lock lets one through
		const racers = 6
		errs := make(chan error, racers)
		var wg sync.WaitGroup
		for i := range racers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.CreateBookingIfFree(ctx, domain.Booking{
					ID: fmt.Sprintf("race-%d", i), Name: "Racer", Email: "r@x.test",
					FromDate: day(20), EndDate: day(22), People: 1, RoomType: "Deluxe", PropertyID: "p-1",
					CreatedAt: now, UpdatedAt: now,
				})
			}()
		}
		wg.Wait()
		close(errs)
		won, clashed := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, domain.ErrConflict):
				clashed++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if won != 1 || clashed != racers-1 {
			t.Fatalf("won=%d clashed=%d", won, clashed)
		}
		if err := repo.CreateBookingIfFree(ctx, domain.Booking{ID: "orphan", FromDate: day(1), EndDate: day(2), PropertyID: "nope", CreatedAt: now, UpdatedAt: now}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for unknown property, got %v", err)
		}

		if err := repo.DeleteBooking(ctx, "b-2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.DeleteBooking(ctx, "b-2"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := repo.GetBooking(ctx, "b-2"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		// deleting the property leaves its bookings behind
		if err := repo.DeleteProperty(ctx, "p-1"); err != nil {
			t.Fatalf("delete property: %v", err)
		}
		if b, err := repo.GetBooking(ctx, "b-1"); err != nil || b.PropertyID != "p-1" {
			t.Fatalf("booking should survive property delete: %+v (%v)", b, err)
		}
	})

	t.Run("testimonials and content", func(t *testing.T) {
		if err := repo.CreateTestimonial(ctx, domain.Testimonial{ID: "t-1", Name: "Amina", Message: "Lovely", Rating: 5, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("create testimonial: %v", err)
		}
		ts, err := repo.ListTestimonials(ctx)
		if err != nil || len(ts) != 1 || ts[0].Rating != 5 {
			t.Fatalf("testimonials: %+v (%v)", ts, err)
		}

		for i, h := range []string{"First", "Second"} {
			c := domain.Content{ID: fmt.Sprintf("c-%d", i), Header: h, Subheader: "sub", CreatedAt: now.Add(time.Duration(i) * time.Hour), UpdatedAt: now}
			if err := repo.CreateContent(ctx, c); err != nil {
				t.Fatalf("create content: %v", err)
			}
		}
		cs, err := repo.ListContent(ctx)
		if err != nil || len(cs) != 2 || cs[0].Header != "First" {
			t.Fatalf("content oldest first: %+v (%v)", cs, err)
		}
		if err := repo.UpdateContent(ctx, domain.Content{ID: "nope", Header: "h", Subheader: "s", UpdatedAt: now}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
