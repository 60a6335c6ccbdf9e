package application

import "expvar"

// Counters published on /debug/vars.
var (
	registrations = expvar.NewInt("auth_registrations")
	logins        = expvar.NewInt("auth_logins")
	loginFailures = expvar.NewInt("auth_login_failures")
	tasksCreated  = expvar.NewInt("tasks_created")
	tasksDeleted  = expvar.NewInt("tasks_deleted")
)
