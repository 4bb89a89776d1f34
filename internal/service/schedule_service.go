package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInvalidDay        = errors.New("invalid day of week")
	ErrInvalidTime       = errors.New("invalid time")
	ErrInvalidDiscipline = errors.New("invalid discipline")
	ErrActivityRequired  = errors.New("activity required for 'other' discipline")
	ErrScheduleConflict  = errors.New("schedule for this day and time already exists")
	ErrScheduleNotFound  = errors.New("schedule entry not found")
)

var disciplineLabels = map[string]string{
	"boxing":    "Boxing",
	"wrestling": "Wrestling",
	"mma":       "MMA",
	"other":     "Other",
}

// ScheduleInput is a create request for a weekly slot.
type ScheduleInput struct {
	DayOfWeek  int
	Time       string
	Activity   string
	Discipline string
	Coach      string
	Age        string
}

// SchedulePatch carries partial updates; nil fields stay untouched.
type SchedulePatch struct {
	DayOfWeek  *int
	Time       *string
	Activity   *string
	Discipline *string
	Coach      *string
	Age        *string
}

type ScheduleService struct {
	repo *repository.ScheduleRepository
}

func NewScheduleService(repo *repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{repo: repo}
}

func (s *ScheduleService) List() ([]*models.Schedule, error) {
	return s.repo.List()
}

// Create validates a slot and rejects a (day, time) collision.
func (s *ScheduleService) Create(in ScheduleInput) (*models.Schedule, error) {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return nil, ErrInvalidDay
	}
	timeOfDay := strings.TrimSpace(in.Time)
	if !ValidTimeOfDay(timeOfDay) {
		return nil, ErrInvalidTime
	}
	discipline := strings.ToLower(strings.TrimSpace(in.Discipline))
	if _, ok := disciplineLabels[discipline]; !ok {
		return nil, ErrInvalidDiscipline
	}

	activity := utils.SanitizePlainText(in.Activity)
	age := utils.SanitizePlainText(in.Age)
	base := disciplineLabels[discipline]
	if discipline == "other" {
		if activity == "" {
			return nil, ErrActivityRequired
		}
		base = activity
	}
	label := composeActivity(base, age)

	existing, err := s.repo.GetByDayTime(in.DayOfWeek, timeOfDay)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrScheduleConflict
	}

	item := &models.Schedule{
		DayOfWeek:  in.DayOfWeek,
		Time:       timeOfDay,
		Activity:   label,
		Discipline: &discipline,
		Coach:      utils.SanitizeOptional(in.Coach),
		Age:        optional(age),
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}

	logger.Log.Info("Schedule entry created",
		zap.Int("day_of_week", item.DayOfWeek),
		zap.String("time", item.Time),
		zap.String("discipline", discipline),
	)
	return item, nil
}

// Update applies a partial edit, recomputing the activity label when the
// discipline or age band changed.
func (s *ScheduleService) Update(id uint, patch SchedulePatch) (*models.Schedule, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrScheduleNotFound
	}

	prevAge := ""
	if item.Age != nil {
		prevAge = *item.Age
	}
	prevActivity := item.Activity

	if patch.DayOfWeek != nil {
		if *patch.DayOfWeek < 0 || *patch.DayOfWeek > 6 {
			return nil, ErrInvalidDay
		}
		item.DayOfWeek = *patch.DayOfWeek
	}
	if patch.Time != nil {
		t := strings.TrimSpace(*patch.Time)
		if !ValidTimeOfDay(t) {
			return nil, ErrInvalidTime
		}
		item.Time = t
	}
	if patch.Activity != nil {
		a := utils.SanitizePlainText(*patch.Activity)
		if a == "" {
			return nil, ErrActivityRequired
		}
		item.Activity = a
	}
	if patch.Coach != nil {
		item.Coach = utils.SanitizeOptional(*patch.Coach)
	}
	if patch.Discipline != nil {
		d := strings.ToLower(strings.TrimSpace(*patch.Discipline))
		if _, ok := disciplineLabels[d]; !ok {
			return nil, ErrInvalidDiscipline
		}
		item.Discipline = &d
	}
	if patch.Age != nil {
		item.Age = utils.SanitizeOptional(utils.SanitizePlainText(*patch.Age))
	}

	if patch.Discipline != nil || patch.Age != nil {
		item.Activity = recomposeActivity(item, patch, prevActivity, prevAge)
	}

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScheduleService) Delete(id uint) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrScheduleNotFound
	}
	return s.repo.Delete(id)
}

// CopyDay duplicates one weekday's slots onto another. With replace the
// target day is cleared first; without it, occupied (day, time) slots are
// skipped. Returns the number of entries created.
func (s *ScheduleService) CopyDay(srcDay, dstDay int, replace bool) (int, error) {
	if srcDay < 0 || srcDay > 6 || dstDay < 0 || dstDay > 6 {
		return 0, ErrInvalidDay
	}
	if replace {
		if err := s.repo.DeleteByDay(dstDay); err != nil {
			return 0, err
		}
	}
	srcItems, err := s.repo.ListByDay(srcDay)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, it := range srcItems {
		if !replace {
			existing, err := s.repo.GetByDayTime(dstDay, it.Time)
			if err != nil {
				return created, err
			}
			if existing != nil {
				continue
			}
		}
		copied := &models.Schedule{
			DayOfWeek:  dstDay,
			Time:       it.Time,
			Activity:   it.Activity,
			Discipline: it.Discipline,
			Coach:      it.Coach,
			Age:        it.Age,
		}
		if err := s.repo.Create(copied); err != nil {
			return created, err
		}
		created++
	}

	logger.Log.Info("Schedule day copied",
		zap.Int("source_day", srcDay),
		zap.Int("target_day", dstDay),
		zap.Bool("replace", replace),
		zap.Int("created", created),
	)
	return created, nil
}

// ValidTimeOfDay accepts "HH:MM" wall-clock strings.
func ValidTimeOfDay(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

func composeActivity(base, age string) string {
	if base == "" {
		base = "Other"
	}
	if age != "" {
		return base + " " + age
	}
	return base
}

// recomposeActivity rebuilds the display label after a discipline or age
// change. For "other" the custom base comes from the patch or is recovered
// by stripping the previous age suffix off the old label.
func recomposeActivity(item *models.Schedule, patch SchedulePatch, prevActivity, prevAge string) string {
	age := ""
	if item.Age != nil {
		age = *item.Age
	}

	discipline := ""
	if item.Discipline != nil {
		discipline = *item.Discipline
	}

	if discipline == "other" {
		base := ""
		if patch.Activity != nil {
			base = utils.SanitizePlainText(*patch.Activity)
		}
		if base == "" {
			txt := prevActivity
			if prevAge != "" && strings.HasSuffix(txt, " "+prevAge) {
				base = strings.TrimSuffix(txt, " "+prevAge)
			} else if idx := strings.LastIndex(txt, " "); idx > 0 {
				base = txt[:idx]
			} else {
				base = txt
			}
		}
		return composeActivity(base, age)
	}

	base := disciplineLabels[discipline]
	if base == "" || base == "Other" {
		if fields := strings.Fields(item.Activity); len(fields) > 0 {
			base = fields[0]
		} else {
			base = "Training"
		}
	}
	return composeActivity(base, age)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
