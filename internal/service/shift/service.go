package shift

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
	"github.com/seu-repo/sms-assistant/internal/service/records"
	"github.com/seu-repo/sms-assistant/internal/service/slots"
)

const (
	dayLayout   = "Monday, January 02"
	isoLayout   = "2006-01-02"
	dayOffStart = "00:00"
	dayOffEnd   = "23:59"
	dayOffNotes = "Day Off"
)

// Schema is the naming of the shifts table. ID, Status and Notes are only
// written when the table has them.
var Schema = records.Schema{
	Primary: records.Convention{
		"id":     "ID",
		"date":   "Date",
		"start":  "Start Time",
		"end":    "End Time",
		"status": "Status",
		"notes":  "Notes",
	},
	Optional: []string{"id", "status", "notes"},
}

// Listing is the payload of a list action.
type Listing struct {
	Window Window         `json:"window"`
	Shifts []domain.Shift `json:"shifts"`
	Count  int            `json:"count"`
}

// Confirmation is the payload of a write. Simulated is set when nothing was stored.
type Confirmation struct {
	Shift     domain.Shift `json:"shift"`
	Simulated bool         `json:"simulated,omitempty"`
}

// Options carries the capabilities decided at startup.
type Options struct {
	// StoreAvailable is false when the shifts table cannot be reached. The
	// handler then answers from a fixed simulated set and does not write.
	StoreAvailable bool
	Now            func() time.Time
}

type Handler struct {
	table     *records.Table
	available bool
	now       func() time.Time
	log       *zap.Logger
}

// NewHandler creates a shift handler over the shifts table. table may be nil
// when the store is unavailable.
func NewHandler(table ports.RecordTable, opts Options, log *zap.Logger) *Handler {
	h := &Handler{
		available: opts.StoreAvailable && table != nil,
		now:       opts.Now,
		log:       log,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.available {
		h.table = records.NewTable(table, Schema, log)
	}
	return h
}

func (h *Handler) Domain() domain.Domain { return domain.DomainShift }

// Handle parses the message and runs the resulting action.
func (h *Handler) Handle(ctx context.Context, msg domain.Message) (domain.Intent, domain.Result) {
	intent := Parse(msg.Text, h.now())
	h.log.Debug("Parsed shift intent", zap.String("action", string(intent.Action)))
	return intent.Generic(), h.Execute(ctx, intent)
}

// Execute runs a parsed intent.
func (h *Handler) Execute(ctx context.Context, intent Intent) domain.Result {
	switch intent.Action {
	case ActionNext:
		return h.next(ctx)
	case ActionAdd, ActionMarkDayOff:
		return h.add(ctx, intent)
	case ActionDelete:
		return h.delete(ctx, intent)
	default:
		return h.list(ctx, intent)
	}
}

func (h *Handler) list(ctx context.Context, intent Intent) domain.Result {
	shifts, err := h.load(ctx)
	if err != nil {
		h.log.Error("Error listing shifts", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error listing shifts: %v", err))
	}

	today := slots.Day(h.now())
	filtered := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if inWindow(s.Date, intent, today) {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date.Before(filtered[j].Date) })

	return domain.OK(Listing{Window: intent.Window, Shifts: filtered, Count: len(filtered)}, "")
}

func inWindow(d time.Time, intent Intent, today time.Time) bool {
	switch intent.Window {
	case WindowDate:
		return d.Equal(intent.Date)
	case WindowWeek:
		start := slots.StartOfWeek(today)
		return !d.Before(start) && !d.After(start.AddDate(0, 0, 6))
	case WindowNextWeek:
		start := slots.StartOfWeek(today).AddDate(0, 0, 7)
		return !d.Before(start) && !d.After(start.AddDate(0, 0, 6))
	case WindowMonth:
		return d.Year() == today.Year() && d.Month() == today.Month()
	default:
		return true
	}
}

func (h *Handler) next(ctx context.Context) domain.Result {
	shifts, err := h.load(ctx)
	if err != nil {
		h.log.Error("Error getting next shift", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error getting next shift: %v", err))
	}

	now := h.now()
	today := slots.Day(now)
	upcoming := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Date.Before(today) {
			continue
		}
		// Shifts without a status skip the clock check.
		if s.Date.Equal(today) && s.Status != "" && startHasPassed(s.StartTime, now) {
			continue
		}
		upcoming = append(upcoming, s)
	}

	if len(upcoming) == 0 {
		return domain.Info("You don't have any upcoming shifts scheduled.")
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].Date.Equal(upcoming[j].Date) {
			return upcoming[i].Date.Before(upcoming[j].Date)
		}
		return upcoming[i].StartTime < upcoming[j].StartTime
	})
	return domain.OK(upcoming[0], "")
}

// startHasPassed reports false when the start time cannot be read, keeping the shift.
func startHasPassed(start string, now time.Time) bool {
	hour, minute, ok := slots.ParseClock(start)
	if !ok {
		return false
	}
	return hour*60+minute < now.Hour()*60+now.Minute()
}

func (h *Handler) add(ctx context.Context, intent Intent) domain.Result {
	now := h.now()

	if intent.DatePhrase == "" {
		return domain.Fail(domain.ErrorParse, `Could not determine the date for the shift. Please include a date like "Monday" or "March 24".`)
	}
	date, ok := slots.ParseDatePhrase(intent.DatePhrase, now)
	if !ok {
		return domain.Fail(domain.ErrorParse, fmt.Sprintf(`Could not understand date "%s". Please use a format like "Monday" or "March 24".`, intent.DatePhrase))
	}

	shift := domain.Shift{Date: date}
	var msg string

	if intent.DayOff {
		shift.StartTime, shift.EndTime = dayOffStart, dayOffEnd
		shift.Status = domain.ShiftOff
		shift.Notes = dayOffNotes
		msg = fmt.Sprintf("Successfully marked %s as a day off", date.Format(dayLayout))
	} else {
		if intent.StartPhrase == "" || intent.EndPhrase == "" {
			return domain.Fail(domain.ErrorParse, `Could not determine the start and end times for the shift. Please include times like "9am to 5pm".`)
		}
		start, okStart := slots.NormalizeTime(intent.StartPhrase)
		end, okEnd := slots.NormalizeTime(intent.EndPhrase)
		if !okStart || !okEnd {
			return domain.Fail(domain.ErrorParse, `Could not understand time format. Please use formats like "9am", "14:30", or "2pm".`)
		}
		shift.StartTime, shift.EndTime = start, end
		shift.Status = domain.ShiftWorking
		shift.Notes = intent.Notes

		if intent.Overnight {
			endDate, ok := slots.ParseDatePhrase(intent.EndDatePhrase, now)
			if !ok {
				return domain.Fail(domain.ErrorParse, fmt.Sprintf(`Could not understand end date "%s". Please use a format like "Monday" or "March 24".`, intent.EndDatePhrase))
			}
			shift.Overnight = true
			shift.EndDate = endDate
			shift.Notes = "Overnight shift ending on " + endDate.Format(dayLayout)
			msg = fmt.Sprintf("Successfully added overnight shift from %s at %s to %s at %s",
				date.Format(dayLayout), start, endDate.Format(dayLayout), end)
		} else {
			msg = fmt.Sprintf("Successfully added shift on %s from %s to %s", date.Format(dayLayout), start, end)
		}
	}
	shift.ID = shiftID(shift)

	if !h.available {
		telemetry.SimulatedResponses.WithLabelValues(string(domain.DomainShift)).Inc()
		h.log.Warn("Shift store unavailable, simulating add", zap.String("shift_id", shift.ID))
		return domain.OK(Confirmation{Shift: shift, Simulated: true}, msg+" (SIMULATED)")
	}

	if err := h.table.Negotiate(ctx); err != nil {
		h.log.Error("Error adding shift", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error adding shift: %v", err))
	}

	values := map[string]interface{}{
		"id":     shift.ID,
		"date":   date.Format(isoLayout),
		"start":  shift.StartTime,
		"end":    shift.EndTime,
		"status": string(shift.Status),
	}
	if shift.Notes != "" {
		values["notes"] = shift.Notes
	}

	h.log.Info("Creating shift", zap.String("shift_id", shift.ID), zap.String("date", date.Format(isoLayout)))
	rec, err := h.table.Create(ctx, values)
	if err != nil {
		h.log.Error("Error adding shift", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error adding shift: %v", err))
	}
	shift.RecordID = rec.ID

	// Report only what the table can hold.
	if !h.table.Has("status") {
		shift.Status = ""
	}
	if !h.table.Has("notes") {
		shift.Notes = ""
	}
	return domain.OK(Confirmation{Shift: shift}, msg)
}

func shiftID(s domain.Shift) string {
	id := "shift_" + s.Date.Format("20060102")
	if s.IsDayOff() {
		return id + "_dayoff"
	}
	return id + "_" + strings.ReplaceAll(s.StartTime, ":", "")
}

func (h *Handler) delete(ctx context.Context, intent Intent) domain.Result {
	if intent.DatePhrase == "" {
		return domain.Fail(domain.ErrorParse, `Could not determine which shift to delete. Please include a date like "delete shift on Monday".`)
	}
	date, ok := slots.ParseDatePhrase(intent.DatePhrase, h.now())
	if !ok {
		return domain.Fail(domain.ErrorParse, fmt.Sprintf(`Could not understand date "%s". Please use a format like "delete shift on Monday".`, intent.DatePhrase))
	}
	day := date.Format(dayLayout)

	if !h.available {
		telemetry.SimulatedResponses.WithLabelValues(string(domain.DomainShift)).Inc()
		return domain.OK(Confirmation{Shift: domain.Shift{Date: date}, Simulated: true}, "Successfully deleted shift (SIMULATED)")
	}

	if err := h.table.Negotiate(ctx); err != nil {
		h.log.Error("Error deleting shift", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error deleting shift: %v", err))
	}

	loc := h.now().Location()
	matches, err := h.table.Filter(ctx, func(rec domain.Record) bool {
		d, ok := slots.ParseStoredDate(h.table.String(rec, "date"), loc)
		return ok && d.Equal(date)
	})
	if err != nil {
		h.log.Error("Error deleting shift", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error deleting shift: %v", err))
	}

	switch len(matches) {
	case 0:
		return domain.Fail(domain.ErrorNotFound, "No shifts found on "+day)
	case 1:
	default:
		candidates := make([]string, len(matches))
		for i, rec := range matches {
			candidates[i] = fmt.Sprintf("%d. %s - %s", i+1, fieldOr(h.table, rec, "start"), fieldOr(h.table, rec, "end"))
		}
		return domain.Ambiguous(
			fmt.Sprintf("Multiple shifts found on %s. Please specify which one to delete:", day),
			candidates,
		)
	}

	rec := matches[0]
	if err := h.table.Delete(ctx, rec.ID); err != nil {
		h.log.Error("Error deleting shift", zap.String("record_id", rec.ID), zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error deleting shift: %v", err))
	}

	removed, _ := h.toShift(rec, loc)
	return domain.OK(Confirmation{Shift: removed},
		fmt.Sprintf("Successfully deleted shift on %s (%s - %s)", day, fieldOr(h.table, rec, "start"), fieldOr(h.table, rec, "end")))
}

func fieldOr(t *records.Table, rec domain.Record, key string) string {
	if v := t.String(rec, key); v != "" {
		return v
	}
	return "Unknown"
}

// load returns every shift with a readable date, or the simulated set when
// the store is unavailable.
func (h *Handler) load(ctx context.Context) ([]domain.Shift, error) {
	if !h.available {
		telemetry.SimulatedResponses.WithLabelValues(string(domain.DomainShift)).Inc()
		h.log.Warn("Shift store unavailable, using simulated shifts")
		return simulatedShifts(h.now()), nil
	}

	if err := h.table.Negotiate(ctx); err != nil {
		return nil, err
	}
	recs, err := h.table.All(ctx)
	if err != nil {
		return nil, err
	}

	loc := h.now().Location()
	shifts := make([]domain.Shift, 0, len(recs))
	for _, rec := range recs {
		s, ok := h.toShift(rec, loc)
		if !ok {
			h.log.Warn("Skipping shift with invalid date format",
				zap.String("record_id", rec.ID),
				zap.String("date", h.table.String(rec, "date")),
			)
			continue
		}
		shifts = append(shifts, s)
	}
	return shifts, nil
}

func (h *Handler) toShift(rec domain.Record, loc *time.Location) (domain.Shift, bool) {
	date, ok := slots.ParseStoredDate(h.table.String(rec, "date"), loc)
	if !ok {
		return domain.Shift{}, false
	}

	s := domain.Shift{
		ID:        h.table.String(rec, "id"),
		RecordID:  rec.ID,
		Date:      date,
		StartTime: h.table.String(rec, "start"),
		EndTime:   h.table.String(rec, "end"),
	}
	if s.ID == "" {
		s.ID = rec.ID
	}
	if h.table.Has("status") {
		s.Status = domain.ShiftStatus(h.table.String(rec, "status"))
		if s.Status == "" {
			s.Status = domain.ShiftWorking
		}
	}
	if h.table.Has("notes") {
		s.Notes = h.table.String(rec, "notes")
	}
	return s, true
}

// simulatedShifts is the fixed set served when the store is unavailable.
func simulatedShifts(now time.Time) []domain.Shift {
	today := slots.Day(now)
	nextWeek := today.AddDate(0, 0, 7)

	return []domain.Shift{
		{ID: "1", Date: today, StartTime: "08:00", EndTime: "16:00", Status: domain.ShiftWorking, Notes: "Morning shift"},
		{ID: "2", Date: today.AddDate(0, 0, 1), StartTime: "12:00", EndTime: "20:00", Status: domain.ShiftWorking, Notes: "Evening shift"},
		{ID: "3", Date: today.AddDate(0, 0, 2), StartTime: dayOffStart, EndTime: dayOffEnd, Status: domain.ShiftOff, Notes: dayOffNotes},
		{ID: "4", Date: nextWeek, StartTime: "09:00", EndTime: "17:00", Status: domain.ShiftWorking, Notes: "Regular shift"},
		{
			ID: "5", Date: nextWeek.AddDate(0, 0, 1), StartTime: "22:00", EndTime: "10:00", Status: domain.ShiftWorking,
			Notes: "Overnight shift ending on " + nextWeek.AddDate(0, 0, 2).Format(dayLayout),
		},
	}
}
