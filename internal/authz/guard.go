// Package authz holds the single authorization guard every mutating operation goes through.
// Role permissions live in a casbin policy; ownership is checked against the loaded records.
package authz

import (
	_ "embed"
	"errors"
	"fmt"

	"marketplace-api/internal/models"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:embed model.conf
var modelConf string

// ErrDenied is wrapped by every guard failure.
var ErrDenied = errors.New("not authorized")

type Action string

const (
	ActionCreateJob          Action = "job:create"
	ActionViewJob            Action = "job:view"
	ActionTransitionJob      Action = "job:transition"
	ActionSubmitApplication  Action = "application:submit"
	ActionDecideApplication  Action = "application:decide"
	ActionListJobApplication Action = "application:list_for_job"
	ActionCheckApplied       Action = "application:check_applied"
	ActionUpdateProfile      Action = "profile:update"
)

// rolePolicies is the role -> action allow list.
var rolePolicies = [][]string{
	{string(models.RoleEmployer), string(ActionCreateJob)},
	{string(models.RoleEmployer), string(ActionViewJob)},
	{string(models.RoleEmployer), string(ActionTransitionJob)},
	{string(models.RoleEmployer), string(ActionDecideApplication)},
	{string(models.RoleEmployer), string(ActionListJobApplication)},
	{string(models.RoleEmployer), string(ActionUpdateProfile)},
	{string(models.RoleFreelancer), string(ActionViewJob)},
	{string(models.RoleFreelancer), string(ActionSubmitApplication)},
	{string(models.RoleFreelancer), string(ActionCheckApplied)},
	{string(models.RoleFreelancer), string(ActionUpdateProfile)},
}

// Guard evaluates role and ownership rules for an acting profile.
type Guard struct {
	enforcer *casbin.Enforcer
}

// NewGuard builds the casbin enforcer from the embedded model and the built-in policies.
func NewGuard() (*Guard, error) {
	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to load model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}
	return &Guard{enforcer: e}, nil
}

func denied(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDenied, fmt.Sprintf(format, args...))
}

// Allow checks that actor's role may perform action.
func (g *Guard) Allow(actor *models.Profile, action Action) error {
	if actor == nil {
		return denied("no acting profile")
	}
	ok, err := g.enforcer.Enforce(string(actor.Role), string(action))
	if err != nil {
		log.WithFields(log.Fields{"role": actor.Role, "action": action, "error": err}).Error("authz: enforce failed")
		return denied("policy evaluation failed")
	}
	if !ok {
		return denied("role %s may not perform %s", actor.Role, action)
	}
	return nil
}

func (g *Guard) requireOwner(actor *models.Profile, owner uuid.UUID, what string) error {
	if actor.ID != owner {
		return denied("profile %s does not own %s", actor.ID, what)
	}
	return nil
}

// CanCreateJob: caller must be an employer. The new job is owned by the caller.
func (g *Guard) CanCreateJob(actor *models.Profile) error {
	return g.Allow(actor, ActionCreateJob)
}

// CanViewJob: any profile may read a single job.
func (g *Guard) CanViewJob(actor *models.Profile) error {
	return g.Allow(actor, ActionViewJob)
}

// CanTransitionJob: caller must be the job's employer.
func (g *Guard) CanTransitionJob(actor *models.Profile, job *models.Job) error {
	if err := g.Allow(actor, ActionTransitionJob); err != nil {
		return err
	}
	return g.requireOwner(actor, job.EmployerID, "job "+job.ID.String())
}

// CanSubmitApplication: caller must be a freelancer. Uniqueness per job is left to the store.
func (g *Guard) CanSubmitApplication(actor *models.Profile) error {
	return g.Allow(actor, ActionSubmitApplication)
}

// CanDecideApplication: caller must be the employer of the application's job.
func (g *Guard) CanDecideApplication(actor *models.Profile, job *models.Job) error {
	if err := g.Allow(actor, ActionDecideApplication); err != nil {
		return err
	}
	return g.requireOwner(actor, job.EmployerID, "job "+job.ID.String())
}

// CanListJobApplications: caller must own the job.
func (g *Guard) CanListJobApplications(actor *models.Profile, job *models.Job) error {
	if err := g.Allow(actor, ActionListJobApplication); err != nil {
		return err
	}
	return g.requireOwner(actor, job.EmployerID, "job "+job.ID.String())
}

func (g *Guard) CanCheckApplied(actor *models.Profile) error {
	return g.Allow(actor, ActionCheckApplied)
}

// CanViewApplication: only the applicant and the job's employer see an application.
func (g *Guard) CanViewApplication(actor *models.Profile, app *models.Application, job *models.Job) error {
	if actor == nil {
		return denied("no acting profile")
	}
	if actor.ID == app.FreelancerID || actor.ID == job.EmployerID {
		return nil
	}
	return denied("profile %s is not a party to application %s", actor.ID, app.ID)
}

// CanUpdateProfile: callers only edit their own profile, and never its role.
func (g *Guard) CanUpdateProfile(actor *models.Profile, targetID uuid.UUID, newRole *models.Role) error {
	if err := g.Allow(actor, ActionUpdateProfile); err != nil {
		return err
	}
	if err := g.requireOwner(actor, targetID, "profile "+targetID.String()); err != nil {
		return err
	}
	if newRole != nil && *newRole != actor.Role {
		return denied("role is fixed at creation")
	}
	return nil
}
