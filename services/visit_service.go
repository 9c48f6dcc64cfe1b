package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medequip_app_go/models"

	"gorm.io/gorm"
)

// Visit errors
var (
	ErrVisitNotFound = errors.New("visit not found")
	ErrVisitLocked   = errors.New("visit is locked and can only be changed by an admin")
)

// NoUpcomingVisits is the sentinel shown when a record has no future scheduled visit
const NoUpcomingVisits = "No upcoming visits"

// ApplyVisitStatusRules normalizes a visit to its status invariant: a
// Scheduled visit carries no service report yet, and its equipment status
// defaults to Working until an engineer reports otherwise.
func ApplyVisitStatusRules(visit *models.Visit) {
	if visit.VisitStatus != models.VisitStatusScheduled {
		return
	}
	visit.VisitDate = nil
	visit.WorkDone = nil
	visit.AttendedBy = nil
	visit.Comments = nil
	if visit.EquipmentStatus == nil || *visit.EquipmentStatus == "" {
		status := models.DefaultEquipmentStatus
		visit.EquipmentStatus = &status
	}
}

// ValidateVisit validates a create/edit submission against the current clock
func ValidateVisit(visit *models.Visit, isCreate bool) error {
	return ValidateVisitAt(visit, isCreate, time.Now())
}

// ValidateVisitAt checks the state-dependent required fields. On create the
// effective date may not lie in the past (before yesterday); edits skip that
// check so historical records stay correctable.
func ValidateVisitAt(visit *models.Visit, isCreate bool, now time.Time) error {
	if !models.IsValidVisitStatus(visit.VisitStatus) {
		return fmt.Errorf("invalid visit status: %s", visit.VisitStatus)
	}

	var missing []string
	if visit.VisitStatus == models.VisitStatusScheduled {
		if visit.ScheduledDate == nil {
			missing = append(missing, "scheduled date")
		}
	} else {
		if visit.VisitDate == nil {
			missing = append(missing, "visit date")
		}
		if visit.WorkDone == nil || *visit.WorkDone == "" {
			missing = append(missing, "work done")
		}
		if visit.AttendedBy == nil || *visit.AttendedBy == "" {
			missing = append(missing, "attended by")
		}
		if visit.EquipmentStatus == nil || *visit.EquipmentStatus == "" {
			missing = append(missing, "equipment status")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("please fill in all required fields: %s", strings.Join(missing, ", "))
	}

	if isCreate {
		if date := visit.EffectiveDate(); date != nil && StartOfDay(*date).Before(Yesterday(now)) {
			return errors.New("visit date cannot be in the past")
		}
	}

	return nil
}

// IsVisitLocked reports the lock state against the current clock
func IsVisitLocked(visit *models.Visit) bool {
	return IsVisitLockedAt(visit, time.Now())
}

// IsVisitLockedAt reports whether a visit's effective date has passed beyond
// the edit window. Scheduled visits never lock, since overdue ones still
// need to be converted to Attended or Closed.
func IsVisitLockedAt(visit *models.Visit, now time.Time) bool {
	if visit.VisitStatus == models.VisitStatusScheduled {
		return false
	}
	date := visit.EffectiveDate()
	if date == nil {
		return false
	}
	return StartOfDay(*date).Before(Yesterday(now))
}

// CanModifyVisit is the permission gate for visit edits, independent of the
// state machine: admins always may, everyone else is blocked on locked visits.
func CanModifyVisit(visit *models.Visit, role string) bool {
	return CanModifyVisitAt(visit, role, time.Now())
}

// CanModifyVisitAt is CanModifyVisit against an explicit clock
func CanModifyVisitAt(visit *models.Visit, role string, now time.Time) bool {
	if role == models.RoleAdmin {
		return true
	}
	return !IsVisitLockedAt(visit, now)
}

// NextVisitDate formats the earliest upcoming scheduled visit for display
func NextVisitDate(visits []models.Visit) string {
	return NextVisitDateAt(visits, time.Now())
}

// NextVisitDateAt returns the earliest scheduled date strictly after now,
// or the NoUpcomingVisits sentinel. Total over any input, including empty.
func NextVisitDateAt(visits []models.Visit, now time.Time) string {
	var upcoming []time.Time
	for i := range visits {
		v := &visits[i]
		if v.VisitStatus == models.VisitStatusScheduled && v.ScheduledDate != nil && v.ScheduledDate.After(now) {
			upcoming = append(upcoming, *v.ScheduledDate)
		}
	}
	if len(upcoming) == 0 {
		return NoUpcomingVisits
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Before(upcoming[j]) })
	return upcoming[0].Format("Jan 2, 2006")
}

// MergeVisit appends a new visit or replaces an existing one by ID in the
// parent record's cached slice, so list summaries stay consistent without a
// full refetch.
func MergeVisit(visits []models.Visit, visit models.Visit) []models.Visit {
	for i := range visits {
		if visits[i].ID == visit.ID {
			visits[i] = visit
			return visits
		}
	}
	return append(visits, visit)
}

// RemoveVisit filters a visit out of the parent record's cached slice
func RemoveVisit(visits []models.Visit, visitID string) []models.Visit {
	result := make([]models.Visit, 0, len(visits))
	for _, v := range visits {
		if v.ID != visitID {
			result = append(result, v)
		}
	}
	return result
}

// GetVisitByID fetches a single visit
func GetVisitByID(db *gorm.DB, id string) (*models.Visit, error) {
	var visit models.Visit
	if err := db.First(&visit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	return &visit, nil
}

// CreateVisit normalizes, validates and persists a new visit
func CreateVisit(db *gorm.DB, visit *models.Visit) error {
	ApplyVisitStatusRules(visit)
	if err := ValidateVisit(visit, true); err != nil {
		return err
	}
	return db.Create(visit).Error
}

// UpdateVisit normalizes, validates and saves an edited visit. The caller
// is responsible for the lock/role gate; this only enforces field rules.
func UpdateVisit(db *gorm.DB, visit *models.Visit) error {
	ApplyVisitStatusRules(visit)
	if err := ValidateVisit(visit, false); err != nil {
		return err
	}
	return db.Model(visit).
		Select("visit_status", "scheduled_date", "visit_date", "work_done",
			"attended_by", "equipment_status", "comments").
		Updates(visit).Error
}

// DeleteVisit hard-deletes a visit
func DeleteVisit(db *gorm.DB, id string) error {
	result := db.Unscoped().Where("id = ?", id).Delete(&models.Visit{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete visit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVisitNotFound
	}
	return nil
}
