package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/shootout/go/internal/dbconfig"
	"github.com/mcdev12/shootout/go/internal/match/results"
)

// Prints the most recent persisted matches, newest first.
func main() {
	limit := flag.Int("limit", 50, "number of matches to print")
	migrate := flag.Bool("migrate", false, "create the matches table before reading")
	flag.Parse()

	_ = godotenv.Load()

	// 1) Connect using shared dbconfig
	poolConfig, err := dbconfig.NewConfigFromEnv().PoolConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := results.NewRepository(pool)

	// 2) Optionally apply the schema
	if *migrate {
		if err := repo.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	// 3) Read and print
	records, err := repo.ListRecent(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list matches: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tMATCH\tPLAYER 1\tPLAYER 2\tSCORE\tWINNER")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d-%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.MatchID, r.Player1, r.Player2,
			r.Player1Score, r.Player2Score, r.Winner)
	}
	w.Flush()

	fmt.Printf("%d matches\n", len(records))
}
