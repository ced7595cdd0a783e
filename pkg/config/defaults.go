package config

import "time"

// Vault defaults.
const (
	DefaultVaultPath   = "~/Documents/Obsidian Vault"
	DefaultVaultFolder = "Daily Reports"
	DefaultReportFile  = "Daily_Progress_Report.md"
)

// Jira defaults.
const (
	DefaultJQL            = `assignee=currentUser() AND status = "In Progress" ORDER BY created DESC`
	DefaultJiraMaxResults = 20
	DefaultJiraTimeout    = 30 * time.Second
)

// Daily defaults.
const (
	DefaultSkipWeekends = true
)

// Rollover defaults.
const (
	DefaultRolloverAuto    = false
	DefaultUniqueIssues    = "last"
	DefaultKeepPreamble    = false
	DefaultRolloverArchive = false
)

// Logging and telemetry defaults.
const (
	DefaultLogLevel    = "info"
	DefaultLogJSON     = false
	DefaultEnvironment = ""
)
