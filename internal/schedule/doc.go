// Package schedule triggers jobs once a day at a fixed wall-clock time in a
// fixed UTC offset, on top of robfig/cron.
//
// All offset arithmetic lives in Daily; callers only see plain jobs.
package schedule
