// Package main — консольный клиент SubZero. По умолчанию работает в
// демо-режиме на встроенных данных; с CONFIG_PATH подхватывает настройки
// live-режима и ходит в REST API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/subzero-app/subzero/internal/client"
	"github.com/subzero-app/subzero/internal/config"
	"github.com/subzero-app/subzero/internal/lib/format"
	"github.com/subzero-app/subzero/internal/models"
	authstore "github.com/subzero-app/subzero/internal/store/auth"
	"github.com/subzero-app/subzero/internal/store/settings"
	substore "github.com/subzero-app/subzero/internal/store/subscription"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	clientCfg := config.Client{
		Mode:      "demo",
		BaseURL:   "http://localhost:5000/api",
		StateDir:  ".subzero",
		DemoDelay: 300 * time.Millisecond,
	}
	if os.Getenv("CONFIG_PATH") != "" {
		clientCfg = config.MustLoad().Client
	}

	api, err := client.New(clientCfg, logger)
	if err != nil {
		logger.Error("failed to initialize client", slog.Any("err", err))
		os.Exit(1)
	}

	prefs, err := settings.New(clientCfg.StateDir)
	if err != nil {
		logger.Error("failed to open settings store", slog.Any("err", err))
		os.Exit(1)
	}
	userSettings := prefs.Load()
	// Первый запуск фиксирует настройки по умолчанию на диске.
	if err := prefs.Save(userSettings); err != nil {
		logger.Warn("failed to persist settings", slog.Any("err", err))
	}

	ctx := context.Background()
	auth := authstore.New(api)
	subs := substore.New(api, auth)

	if res := auth.Login(ctx, "demo@subzero.app", "demo-password"); !res.Success {
		fmt.Fprintln(os.Stderr, "login failed:", res.Error)
		os.Exit(1)
	}
	user := auth.State().User
	fmt.Printf("Signed in as %s (%s tier)\n", user.Name, user.SubscriptionTier)
	fmt.Printf("Settings: currency %s, theme %s, billing reminders %v\n\n",
		userSettings.Currency, userSettings.Theme, userSettings.BillingReminders)

	if res := subs.Load(ctx); !res.Success {
		fmt.Fprintln(os.Stderr, "failed to load subscriptions:", res.Error)
		os.Exit(1)
	}

	printState(subs.State())

	fmt.Println("\nDiscovering subscriptions from linked accounts...")
	dres := subs.Discover(ctx, models.DiscoveryOptions{IncludeBankData: true, IncludeEmailData: true})
	if !dres.Success {
		fmt.Fprintln(os.Stderr, "discovery failed:", dres.Error)
	} else {
		fmt.Printf("Discovered and added %d subscriptions\n\n", dres.Count)
		printState(subs.State())
	}
}

func printState(st substore.State) {
	fmt.Println("Subscriptions:")
	for _, s := range st.Subscriptions {
		line := fmt.Sprintf("  %-24s %-14s %10s/mo  %s",
			s.Name, s.Category, format.Currency(s.MonthlyAmount), s.Status)
		if s.DiscoveredVia != "" {
			line += " (via " + s.DiscoveredVia + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("Total: %s/month, %s/year\n",
		format.Currency(st.TotalMonthlySpend), format.Currency(st.TotalAnnualSpend))

	if len(st.UpcomingBills) > 0 {
		next := st.UpcomingBills[0]
		fmt.Printf("Next bill: %s %s on %s (in %d days)\n",
			next.Name, format.Currency(next.Amount), format.Date(next.BillingDate), next.DaysUntil)
	}
}
