package export

import "github.com/okian/mealrecon/internal/domain/model"

// Names holds the artifact file names of one reporting period.
type Names struct {
	Detail           string
	DailySummary     string
	MemberAttendance string
	Fiscal           string
	Report           string
}

// NamesFor derives artifact file names from the period label.
func NamesFor(p model.Period) Names {
	label := p.Label()
	return Names{
		Detail:           "detail_" + label + ".csv",
		DailySummary:     "daily_summary_" + label + ".xlsx",
		MemberAttendance: "member_attendance_" + label + ".xlsx",
		Fiscal:           "fiscal_breakdown_" + label + ".xlsx",
		Report:           "report_" + label + ".txt",
	}
}
