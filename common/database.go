package common

import (
	"sync/atomic"

	"github.com/evoai/commerce-agent/common/config"
)

// Dialect flags, set once by model.InitDB.
var (
	UsingSQLite     atomic.Bool
	UsingPostgreSQL atomic.Bool
	UsingMySQL      atomic.Bool
)

var SQLitePath = config.SQLitePath
var SQLiteBusyTimeout = config.SQLiteBusyTimeout
