package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/repository/models"
)

const defaultTrimesterCount = 3

// RosterService manages students, practice groups, services and settings.
type RosterService struct {
	store  DocumentStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRosterService creates a new RosterService instance.
func NewRosterService(store DocumentStore, logger *zap.Logger) *RosterService {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		store:  store,
		logger: logger.Named("roster"),
		now:    time.Now,
	}
}

// AddStudent registers a student, or reactivates a removed one with the same
// NRE. A non-empty Group is assigned through AssignGroup.
func (s *RosterService) AddStudent(ctx context.Context, st models.Student) (models.Student, error) {
	st.NRE = strings.TrimSpace(st.NRE)
	st.Name = strings.TrimSpace(st.Name)
	st.Surname = strings.TrimSpace(st.Surname)
	st.Group = strings.TrimSpace(st.Group)
	if err := validateStruct(st); err != nil {
		return models.Student{}, err
	}

	var existing models.Student
	err := getDoc(ctx, s.store, models.CollectionStudents, st.NRE, &existing)
	switch {
	case err == nil && existing.Active:
		return models.Student{}, fmt.Errorf("student %s: %w", st.NRE, ErrAlreadyExists)
	case err != nil && !errors.Is(err, ErrNotFound):
		return models.Student{}, err
	}

	st.Active = true
	st.RemovedAt = nil
	reactivated := err == nil
	if err := putDoc(ctx, s.store, models.CollectionStudents, st.NRE, st); err != nil {
		return models.Student{}, err
	}
	if st.Group != "" {
		if err := s.AssignGroup(ctx, st.NRE, st.Group); err != nil {
			return models.Student{}, err
		}
	} else if st.Group, err = s.assignedGroup(ctx, st.NRE); err != nil {
		return models.Student{}, err
	}

	s.logger.Info("student added", zap.String("nre", st.NRE), zap.Bool("reactivated", reactivated))
	return st, nil
}

// UpdateStudent overwrites the editable fields of an existing student,
// group included: an empty Group clears the assignment.
func (s *RosterService) UpdateStudent(ctx context.Context, st models.Student) (models.Student, error) {
	if err := validateStruct(st); err != nil {
		return models.Student{}, err
	}
	existing, err := s.GetStudent(ctx, st.NRE)
	if err != nil {
		return models.Student{}, err
	}

	group := strings.TrimSpace(st.Group)
	regroup := group != existing.Group
	if regroup && !existing.Active {
		return models.Student{}, invalidf("student %s has been removed", existing.NRE)
	}

	existing.Name = strings.TrimSpace(st.Name)
	existing.Surname = strings.TrimSpace(st.Surname)
	if err := putDoc(ctx, s.store, models.CollectionStudents, existing.NRE, existing); err != nil {
		return models.Student{}, err
	}
	if regroup {
		if err := s.AssignGroup(ctx, existing.NRE, group); err != nil {
			return models.Student{}, err
		}
		existing.Group = group
	}
	return existing, nil
}

func (s *RosterService) GetStudent(ctx context.Context, nre string) (models.Student, error) {
	var st models.Student
	if err := getDoc(ctx, s.store, models.CollectionStudents, nre, &st); err != nil {
		return models.Student{}, fmt.Errorf("student %s: %w", nre, err)
	}
	group, err := s.assignedGroup(ctx, nre)
	if err != nil {
		return models.Student{}, err
	}
	st.Group = group
	return st, nil
}

// assignedGroup returns the student's practice group, or "" when unassigned.
func (s *RosterService) assignedGroup(ctx context.Context, nre string) (string, error) {
	var a models.StudentGroupAssignment
	err := getDoc(ctx, s.store, models.CollectionStudentGroups, nre, &a)
	switch {
	case err == nil:
		return a.Group, nil
	case errors.Is(err, ErrNotFound):
		return "", nil
	default:
		return "", err
	}
}

// RemoveStudent soft-removes a student. Its evaluation records are kept but
// no longer aggregated.
func (s *RosterService) RemoveStudent(ctx context.Context, nre string) error {
	st, err := s.GetStudent(ctx, nre)
	if err != nil {
		return err
	}
	if !st.Active {
		return nil
	}
	now := s.now().UTC()
	st.Active = false
	st.RemovedAt = &now
	if err := putDoc(ctx, s.store, models.CollectionStudents, nre, st); err != nil {
		return err
	}
	s.logger.Info("student removed", zap.String("nre", nre))
	return nil
}

// ListStudents returns students sorted by surname and name.
func (s *RosterService) ListStudents(ctx context.Context, includeRemoved bool) ([]models.Student, error) {
	all, err := listDocs[models.Student](ctx, s.store, s.logger, models.CollectionStudents)
	if err != nil {
		return nil, err
	}
	groups, err := s.GroupAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, st := range all {
		if st.Active || includeRemoved {
			st.Group = groups[st.NRE]
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// AssignGroup sets the practice group of a student. An empty group clears it.
func (s *RosterService) AssignGroup(ctx context.Context, nre, group string) error {
	st, err := s.GetStudent(ctx, nre)
	if err != nil {
		return err
	}
	if !st.Active {
		return invalidf("student %s has been removed", nre)
	}

	group = strings.TrimSpace(group)
	if group == "" {
		return removeDoc(ctx, s.store, models.CollectionStudentGroups, nre)
	}
	a := models.StudentGroupAssignment{NRE: nre, Group: group}
	if err := putDoc(ctx, s.store, models.CollectionStudentGroups, nre, a); err != nil {
		return err
	}
	s.logger.Info("group assigned", zap.String("nre", nre), zap.String("group", group))
	return nil
}

// GroupAssignments returns the current practice group of every assigned student.
func (s *RosterService) GroupAssignments(ctx context.Context) (map[string]string, error) {
	list, err := listDocs[models.StudentGroupAssignment](ctx, s.store, s.logger, models.CollectionStudentGroups)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, a := range list {
		out[a.NRE] = a.Group
	}
	return out, nil
}

// CreateService defines a new practice service. Its trimester cannot change later.
func (s *RosterService) CreateService(ctx context.Context, svc models.Service) (models.Service, error) {
	if err := validateStruct(svc); err != nil {
		return models.Service{}, err
	}
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	} else {
		var existing models.Service
		err := getDoc(ctx, s.store, models.CollectionServices, svc.ID, &existing)
		if err == nil {
			return models.Service{}, fmt.Errorf("service %s: %w", svc.ID, ErrAlreadyExists)
		}
		if !errors.Is(err, ErrNotFound) {
			return models.Service{}, err
		}
	}
	if err := putDoc(ctx, s.store, models.CollectionServices, svc.ID, svc); err != nil {
		return models.Service{}, err
	}
	s.logger.Info("service created", zap.String("id", svc.ID), zap.Int("trimester", svc.Trimester))
	return svc, nil
}

func (s *RosterService) GetService(ctx context.Context, id string) (models.Service, error) {
	var svc models.Service
	if err := getDoc(ctx, s.store, models.CollectionServices, id, &svc); err != nil {
		return models.Service{}, fmt.Errorf("service %s: %w", id, err)
	}
	return svc, nil
}

// UpdateService edits name and date. A trimester change is rejected; nil
// roles keep the planned roles.
func (s *RosterService) UpdateService(ctx context.Context, svc models.Service) (models.Service, error) {
	if err := validateStruct(svc); err != nil {
		return models.Service{}, err
	}
	existing, err := s.GetService(ctx, svc.ID)
	if err != nil {
		return models.Service{}, err
	}
	if svc.Trimester != existing.Trimester {
		return models.Service{}, invalidf("service %s belongs to trimester %d", svc.ID, existing.Trimester)
	}
	if svc.Roles == nil {
		svc.Roles = existing.Roles
	}
	if err := putDoc(ctx, s.store, models.CollectionServices, svc.ID, svc); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

// RemoveService deletes a service. Its evaluations stay in the store as
// orphans and are not aggregated.
func (s *RosterService) RemoveService(ctx context.Context, id string) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	return removeDoc(ctx, s.store, models.CollectionServices, id)
}

// ListServices returns services sorted by date. Trimester 0 lists them all.
func (s *RosterService) ListServices(ctx context.Context, trimester int) ([]models.Service, error) {
	all, err := listDocs[models.Service](ctx, s.store, s.logger, models.CollectionServices)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, svc := range all {
		if trimester == 0 || svc.Trimester == trimester {
			out = append(out, svc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// PlanRoles stores the partida each student covers during a service.
func (s *RosterService) PlanRoles(ctx context.Context, serviceID string, roles map[string]string) (models.Service, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return models.Service{}, err
	}

	planned := make(map[string]string, len(roles))
	for nre, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		st, err := s.GetStudent(ctx, nre)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return models.Service{}, invalidf("unknown student %s", nre)
			}
			return models.Service{}, err
		}
		if !st.Active {
			return models.Service{}, invalidf("student %s has been removed", nre)
		}
		planned[nre] = role
	}

	svc.Roles = planned
	if err := putDoc(ctx, s.store, models.CollectionServices, svc.ID, svc); err != nil {
		return models.Service{}, err
	}
	s.logger.Info("roles planned", zap.String("service", serviceID), zap.Int("students", len(planned)))
	return svc, nil
}

// Settings returns the app settings, with defaults when none were saved.
func (s *RosterService) Settings(ctx context.Context) (models.AppSettings, error) {
	return loadSettings(ctx, s.store)
}

func (s *RosterService) SaveSettings(ctx context.Context, settings models.AppSettings) (models.AppSettings, error) {
	if settings.TrimesterCount == 0 {
		settings.TrimesterCount = defaultTrimesterCount
	}
	if err := validateStruct(settings); err != nil {
		return models.AppSettings{}, err
	}
	if err := putDoc(ctx, s.store, models.CollectionSettings, models.SettingsDocumentID, settings); err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}

func loadSettings(ctx context.Context, store DocumentStore) (models.AppSettings, error) {
	var settings models.AppSettings
	err := getDoc(ctx, store, models.CollectionSettings, models.SettingsDocumentID, &settings)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.AppSettings{}, err
	}
	if settings.TrimesterCount == 0 {
		settings.TrimesterCount = defaultTrimesterCount
	}
	return settings, nil
}
