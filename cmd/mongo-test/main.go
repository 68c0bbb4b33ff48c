package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bi0dread/criteria"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	cfg        *Config
	log        *slog.Logger
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "mongo-test",
	Short:         "Run criteria filters against MongoDB and sqlite",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd, configFile)
		if err != nil {
			return err
		}
		log = newLogger(cfg.Log)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample users into MongoDB",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCollection(cmd.Context(), seedUsers)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sample queries against MongoDB",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCollection(cmd.Context(), runQueries)
	},
}

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Run the sample queries against an in-memory sqlite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSQLQueries()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	pf.String("uri", "", "MongoDB connection URI")
	pf.String("database", "", "MongoDB database")
	pf.String("collection", "", "MongoDB collection")
	pf.String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	pf.String("log-format", "", "log format: text or json")
	pf.Int("count", 0, "number of users to generate")
	pf.Int64("rand", 0, "random seed for generated users")

	seedCmd.Flags().Bool("drop", false, "drop the collection before seeding")

	rootCmd.AddCommand(seedCmd, runCmd, sqlCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withCollection(ctx context.Context, fn func(context.Context, *mongo.Collection) error) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("disconnect failed", "error", err)
		}
	}()

	if err := waitForMongo(ctx, client); err != nil {
		return err
	}
	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	return fn(ctx, coll)
}

func waitForMongo(ctx context.Context, client *mongo.Client) error {
	for i := 0; i < 30; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx, nil)
		cancel()
		if err == nil {
			return nil
		}
		log.Info("waiting for MongoDB", "uri", cfg.Mongo.URI, "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("timeout waiting for MongoDB at %s", cfg.Mongo.URI)
}

func seedUsers(ctx context.Context, coll *mongo.Collection) error {
	if cfg.Seed.Drop {
		if err := coll.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", coll.Name(), err)
		}
	}

	users := generateUsers(cfg.Seed.Count, cfg.Seed.Rand)
	docs := make([]any, 0, len(users))
	for _, u := range users {
		docs = append(docs, u)
	}
	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Info("seeded users", "collection", coll.Name(), "count", len(res.InsertedIDs))
	return nil
}

func runQueries(ctx context.Context, coll *mongo.Collection) error {
	opts := criteria.FindOptions(0, 5, bson.D{{Key: "score", Value: -1}})

	queries := sampleQueries()
	failed := 0
	for _, q := range queries {
		filter, err := criteria.ExtJSON(q.Criteria, false)
		if err != nil {
			log.Error("invalid criteria", "query", q.Name, "error", err)
			failed++
			continue
		}

		total, err := criteria.Count(ctx, coll, q.Criteria)
		if err != nil {
			log.Error("count failed", "query", q.Name, "filter", filter, "error", err)
			failed++
			continue
		}

		cur, err := criteria.Find(ctx, coll, q.Criteria, opts)
		if err != nil {
			log.Error("find failed", "query", q.Name, "filter", filter, "error", err)
			failed++
			continue
		}
		var top []User
		if err := cur.All(ctx, &top); err != nil {
			log.Error("decode failed", "query", q.Name, "error", err)
			failed++
			continue
		}

		names := make([]string, 0, len(top))
		for _, u := range top {
			names = append(names, u.Name)
		}
		log.Info("query", "name", q.Name, "filter", filter, "total", total, "top", names)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(queries))
	}
	return nil
}

func runSQLQueries() error {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	users := generateUsers(cfg.Seed.Count, cfg.Seed.Rand)
	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return fmt.Errorf("failed to seed sqlite: %w", err)
	}

	for _, q := range sampleQueries() {
		sql, vars, err := criteria.SQLString(q.Criteria, db, &[]User{})
		if err != nil {
			// The negated pair and top-level operators have no SQL form.
			log.Warn("no sql form", "query", q.Name, "error", err)
			continue
		}

		trx, err := criteria.ApplyGorm(q.Criteria, db.Model(&User{}))
		if err != nil {
			log.Error("apply failed", "query", q.Name, "error", err)
			continue
		}
		var total int64
		if err := trx.Count(&total).Error; err != nil {
			log.Error("count failed", "query", q.Name, "sql", db.Dialector.Explain(sql, vars...), "error", err)
			continue
		}
		log.Info("query", "name", q.Name, "sql", db.Dialector.Explain(sql, vars...), "total", total)
	}
	return nil
}
