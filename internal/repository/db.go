/**
 * @description
 * PostgreSQL connection manager plus schema setup: GORM auto-migration of
 * orders/trades/state and the NOTIFY trigger the notification fan-out
 * listens on.
 *
 * @dependencies
 * - gorm.io/gorm, gorm.io/driver/postgres: ORM + driver
 */

package repository

import (
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/config"
	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL connection, tunes the pool, runs
// auto-migration, and installs the order_update_trigger.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Error
	if cfg.Server.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.Order{}, &model.Trade{}, &model.State{}); err != nil {
		return nil, err
	}

	if err := installNotifyTrigger(db); err != nil {
		return nil, err
	}

	logger.Info("connected to PostgreSQL")
	return db, nil
}

// installNotifyTrigger creates (or replaces) the function + trigger that
// emit NOTIFY order_updates, row_to_json(NEW) on every order insert/update.
func installNotifyTrigger(db *gorm.DB) error {
	const functionSQL = `
CREATE OR REPLACE FUNCTION notify_order_update() RETURNS trigger AS $$
BEGIN
  PERFORM pg_notify('order_updates', row_to_json(NEW)::text);
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;
`
	const triggerSQL = `
DROP TRIGGER IF EXISTS order_update_trigger ON orders;
CREATE TRIGGER order_update_trigger
AFTER INSERT OR UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION notify_order_update();
`
	if err := db.Exec(functionSQL).Error; err != nil {
		return err
	}
	return db.Exec(triggerSQL).Error
}
