package config

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// DashboardConfig holds the presentation rules of the inventory dashboard.
type DashboardConfig struct {
	PageSize           int           `koanf:"pagesize"`
	SearchDebounce     time.Duration `koanf:"searchdebounce"`
	LowStockThreshold  int32         `koanf:"lowstockthreshold"`
	StockBands         StockBands    `koanf:"stockbands"`
	ToastTTL           time.Duration `koanf:"toastttl"`
	SessionIdleTimeout time.Duration `koanf:"sessionidletimeout"`
	SweepInterval      time.Duration `koanf:"sweepinterval"`
	Seed               bool          `koanf:"seed"`
}

// StockBands splits stock counts into ample (> Ample), low (> Low) and critical.
type StockBands struct {
	Ample int32 `koanf:"ample"`
	Low   int32 `koanf:"low"`
}

const (
	defaultPageSize           = 6
	defaultSearchDebounce     = 500 * time.Millisecond
	defaultLowStockThreshold  = 10
	defaultAmpleAbove         = 50
	defaultLowAbove           = 10
	defaultToastTTL           = 4 * time.Second
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultSweepInterval      = time.Minute
)

// String returns a string representation of the dashboard configuration.
func (c *DashboardConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Dashboard ---\n")
	b.WriteString(fmt.Sprintf("  pagesize: %d\n", c.PageSize))
	b.WriteString(fmt.Sprintf("  searchdebounce: %s\n", c.SearchDebounce))
	b.WriteString(fmt.Sprintf("  lowstockthreshold: %d\n", c.LowStockThreshold))
	b.WriteString(fmt.Sprintf("  stockbands.ample: %d\n", c.StockBands.Ample))
	b.WriteString(fmt.Sprintf("  stockbands.low: %d\n", c.StockBands.Low))
	b.WriteString(fmt.Sprintf("  toastttl: %s\n", c.ToastTTL))
	b.WriteString(fmt.Sprintf("  sessionidletimeout: %s\n", c.SessionIdleTimeout))
	b.WriteString(fmt.Sprintf("  sweepinterval: %s\n", c.SweepInterval))
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Seed))
	return b.String()
}

// Validate fills unset values with their defaults and checks the stock bands.
func (c *DashboardConfig) Validate() error {
	if c.PageSize <= 0 {
		log.Println("Using default value for dashboard pagesize")
		c.PageSize = defaultPageSize
	}
	if c.SearchDebounce <= 0 {
		log.Println("Using default value for dashboard searchdebounce")
		c.SearchDebounce = defaultSearchDebounce
	}
	if c.LowStockThreshold <= 0 {
		log.Println("Using default value for dashboard lowstockthreshold")
		c.LowStockThreshold = defaultLowStockThreshold
	}
	if c.StockBands.Ample <= 0 && c.StockBands.Low <= 0 {
		log.Println("Using default values for dashboard stockbands")
		c.StockBands = StockBands{Ample: defaultAmpleAbove, Low: defaultLowAbove}
	}
	if c.StockBands.Low < 0 || c.StockBands.Ample <= c.StockBands.Low {
		return fmt.Errorf("dashboard stockbands.ample (%d) must be greater than stockbands.low (%d)", c.StockBands.Ample, c.StockBands.Low)
	}
	if c.ToastTTL <= 0 {
		log.Println("Using default value for dashboard toastttl")
		c.ToastTTL = defaultToastTTL
	}
	if c.SessionIdleTimeout <= 0 {
		log.Println("Using default value for dashboard sessionidletimeout")
		c.SessionIdleTimeout = defaultSessionIdleTimeout
	}
	if c.SweepInterval <= 0 {
		log.Println("Using default value for dashboard sweepinterval")
		c.SweepInterval = defaultSweepInterval
	}
	return nil
}
