package team

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("team not found")

type (
	Repository interface {
		CreateTeam(t Team) (Team, error)
		QueryAllTeams() ([]Team, error)
		GetTeamByID(id int) (Team, error)
		UpdateTeam(t Team) (Team, error)
		DeleteTeamsByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nt NewTeam) (Team, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTeam(Team{
		Driver:     nt.Driver,
		Assistants: nt.Assistants,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) QueryAll() ([]Team, error) {
	return svc.repo.QueryAllTeams()
}

func (svc *Service) GetByID(id int) (Team, error) {
	return svc.repo.GetTeamByID(id)
}

func (svc *Service) Update(id int, ut UpdateTeam) (Team, error) {
	return svc.repo.UpdateTeam(Team{
		ID:         id,
		Driver:     ut.Driver,
		Assistants: *ut.Assistants,
		UpdatedAt:  time.Now().UTC(),
	})
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteTeamsByID(ids...)
}
