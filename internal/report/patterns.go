package report

// FailurePatterns are matched against the failure messages to build the
// error counters of a report.
var FailurePatterns = []string{
	`(?i)timeout|timed out`,
	`not visible`,
	`not found`,
	`Expected`,
	`!=`,
	`Setup failed`,
	`Teardown failed`,
	`No keyword with name`,
	`Connection refused`,
	`Traceback`,
}
