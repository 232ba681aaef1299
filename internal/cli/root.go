package cli

import (
	"io"

	"kitchenlog/internal/models"
	"kitchenlog/internal/service"
)

// Context is handed to every command's Run method.
type Context struct {
	Services *service.Service
	In       io.Reader
	Out      io.Writer
}

// FilterFlags are the date filter options shared by recent and export.
type FilterFlags struct {
	Year      int    `help:"Year of the month filter." placeholder:"YYYY"`
	Month     int    `help:"Month of the month filter (1-12)."`
	StartDate string `name:"start-date" help:"First start date, inclusive (YYYY-MM-DD). Wins over --year/--month."`
	EndDate   string `name:"end-date" help:"Last start date, inclusive (YYYY-MM-DD)."`
}

func (f FilterFlags) Filter() models.DateFilter {
	return models.DateFilter{StartDate: f.StartDate, EndDate: f.EndDate, Year: f.Year, Month: f.Month}
}
