package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/walletpage/internal/api"
	"github.com/mtlprog/walletpage/internal/balance"
	"github.com/mtlprog/walletpage/internal/config"
	"github.com/mtlprog/walletpage/internal/database"
	"github.com/mtlprog/walletpage/internal/export"
	"github.com/mtlprog/walletpage/internal/icons"
	"github.com/mtlprog/walletpage/internal/prices"
	"github.com/mtlprog/walletpage/internal/series"
	"github.com/mtlprog/walletpage/internal/swap"
	"github.com/mtlprog/walletpage/internal/worker"
)

var fileFlag = &cli.StringFlag{
	Name:  "file",
	Usage: `read balances from a JSON file ({"<wallet>": [{"currency","amount","blockchain"}]}) instead of the database`,
}

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the price refresh worker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.HTTPPort},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			pool, err := openDatabase(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			priceSvc := prices.NewService(newPriceClient(cfg), prices.NewPgRepository(pool), cfg.PricesCacheTTL)
			balanceSvc := balance.NewService(balance.NewPgRepository(pool), priceSvc)

			priceWorker := worker.NewPriceWorker(priceSvc, cfg.PriceWorkerInterval)
			go priceWorker.Run(ctx)

			if cfg.AdminAPIKey == "" {
				slog.Warn("ADMIN_API_KEY not set, write endpoints are unprotected")
			}

			srv := api.NewServer(c.String("port"), balanceSvc, priceSvc, cfg.AdminAPIKey)

			errCh := make(chan error, 1)
			go func() {
				slog.Info("HTTP server listening", "port", c.String("port"))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return fmt.Errorf("HTTP server: %w", err)
			}
			slog.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("HTTP server shutdown: %w", err)
			}
			slog.Info("shutdown complete")
			return nil
		},
	}
}

func balancesCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "balances",
		Usage:     "render a wallet's balances",
		ArgsUsage: "<wallet>",
		Flags: []cli.Flag{
			fileFlag,
			&cli.BoolFlag{Name: "pretty", Usage: "print a formatted table instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			address := c.Args().First()
			if address == "" {
				return errors.New("wallet address is required")
			}

			svc, closeFn, err := newBalanceService(c.Context, cfg, c.String("file"))
			if err != nil {
				return err
			}
			defer closeFn()

			page, err := svc.Page(c.Context, address)
			if err != nil {
				return err
			}

			if !c.Bool("pretty") {
				return printJSON(page)
			}
			out, err := glamour.Render(balance.Markdown(page), "auto")
			if err != nil {
				return fmt.Errorf("rendering table: %w", err)
			}
			fmt.Print(out)
			return nil
		},
	}
}

func swapCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "swap",
		Usage: "quote a token swap at current prices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true},
			&cli.StringFlag{Name: "to", Required: true},
			&cli.StringFlag{Name: "amount", Required: true},
		},
		Action: func(c *cli.Context) error {
			amount, err := swap.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}

			snap, err := prices.NewService(newPriceClient(cfg), nil, cfg.PricesCacheTTL).Snapshot(c.Context)
			if err != nil {
				return err
			}

			quote, err := swap.Calculate(snap.Table, c.String("from"), c.String("to"), amount)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s = %s %s\n", c.String("amount"), quote.From, quote.OutputText, quote.To)
			fmt.Println(quote.RateDisplay)
			return nil
		},
	}
}

func sumCommand() *cli.Command {
	return &cli.Command{
		Name:      "sum",
		Usage:     "sum the integers 1..n with each implementation",
		ArgsUsage: "<n>",
		Action: func(c *cli.Context) error {
			n, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return fmt.Errorf("n must be an integer: %w", err)
			}
			for _, m := range series.Methods() {
				if m.Name == "recursive" && n > 1_000_000 {
					fmt.Printf("%-10s skipped (n too large)\n", m.Name)
					continue
				}
				fmt.Printf("%-10s %d\n", m.Name, m.Sum(n))
			}
			return nil
		},
	}
}

func iconsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "icons",
		Usage: "download token icons from GitHub",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Value: cfg.IconsRepo},
			&cli.StringFlag{Name: "branch", Value: cfg.IconsBranch},
			&cli.StringFlag{Name: "path", Value: cfg.IconsPath},
			&cli.StringFlag{Name: "output", Value: cfg.IconsOutputDir},
			&cli.DurationFlag{Name: "delay", Value: cfg.IconsDelay},
		},
		Action: func(c *cli.Context) error {
			client := icons.NewClient(cfg.GitHubAPIURL, c.String("repo"), c.String("branch"))
			d := icons.NewDownloader(client, c.String("path"), c.String("output"), c.Duration("delay"))

			summary, err := d.DownloadAll(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("downloaded %d of %d icons (%d failed) to %s\n",
				summary.Downloaded, summary.Total, summary.Failed, c.String("output"))
			return nil
		},
	}
}

func exportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export a wallet's balances to XLSX and/or Google Sheets",
		ArgsUsage: "<wallet>",
		Flags: []cli.Flag{
			fileFlag,
			&cli.StringFlag{Name: "xlsx", Usage: "write an Excel workbook to this path"},
			&cli.BoolFlag{Name: "sheets", Usage: "write to SHEETS_SPREADSHEET_ID"},
		},
		Action: func(c *cli.Context) error {
			address := c.Args().First()
			if address == "" {
				return errors.New("wallet address is required")
			}

			var writers []export.Writer
			if path := c.String("xlsx"); path != "" {
				writers = append(writers, export.NewXLSXWriter(path))
			}
			if c.Bool("sheets") {
				if cfg.SheetsSpreadsheetID == "" || cfg.GoogleCredentials == "" {
					return errors.New("SHEETS_SPREADSHEET_ID and GOOGLE_CREDENTIALS_JSON are required for --sheets")
				}
				w, err := export.NewSheetsWriter(c.Context, cfg.SheetsSpreadsheetID, cfg.GoogleCredentials)
				if err != nil {
					return err
				}
				writers = append(writers, w)
			}

			svc, closeFn, err := newBalanceService(c.Context, cfg, c.String("file"))
			if err != nil {
				return err
			}
			defer closeFn()

			return export.NewService(svc, writers...).Export(c.Context, address)
		},
	}
}

func newPriceClient(cfg *config.Config) *prices.Client {
	return prices.NewClient(cfg.PricesURL, cfg.PricesRetryBaseDelay, cfg.PricesRetryMax)
}

// newBalanceService builds a balance service over the JSON file when one is
// given, otherwise over the database.
func newBalanceService(ctx context.Context, cfg *config.Config, file string) (*balance.Service, func(), error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening balances file: %w", err)
		}
		defer f.Close()

		repo, err := balance.LoadJSON(f)
		if err != nil {
			return nil, nil, err
		}
		priceSvc := prices.NewService(newPriceClient(cfg), nil, cfg.PricesCacheTTL)
		return balance.NewService(repo, priceSvc), func() {}, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL or --file is required")
	}
	pool, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	priceSvc := prices.NewService(newPriceClient(cfg), prices.NewPgRepository(pool), cfg.PricesCacheTTL)
	return balance.NewService(balance.NewPgRepository(pool), priceSvc), pool.Close, nil
}

func openDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, pool, database.Migrations()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
