package question

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("question not found")

type (
	Repository interface {
		CreateQuestion(q Question) (Question, error)
		QueryAllQuestions() ([]Question, error)
		GetQuestionByID(id int) (Question, error)
		UpdateQuestion(q Question) (Question, error)
		DeleteQuestionsByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Catalog returns every question ordered by its sort key.
func (svc *Service) Catalog() ([]Question, error) {
	qs, err := svc.repo.QueryAllQuestions()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs, nil
}

func (svc *Service) Create(nq NewQuestion) (Question, error) {
	return svc.repo.CreateQuestion(Question{
		Text:              nq.Text,
		Order:             nq.Order,
		GoodWhenYes:       nq.GoodWhenYes,
		RequireReasonWhen: nq.RequireReasonWhen,
	})
}

func (svc *Service) GetByID(id int) (Question, error) {
	return svc.repo.GetQuestionByID(id)
}

func (svc *Service) Update(id int, uq UpdateQuestion) (Question, error) {
	return svc.repo.UpdateQuestion(Question{
		ID:                id,
		Text:              uq.Text,
		Order:             *uq.Order,
		GoodWhenYes:       *uq.GoodWhenYes,
		RequireReasonWhen: uq.RequireReasonWhen,
	})
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteQuestionsByID(ids...)
}

// Seed loads the default checklist catalog into an empty repository.
// It is a no-op when any question already exists.
func (svc *Service) Seed() error {
	existing, err := svc.repo.QueryAllQuestions()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, q := range DefaultCatalog() {
		if _, err = svc.repo.CreateQuestion(q); err != nil {
			return errors.Wrapf(err, "seeding question %q", q.Text)
		}
	}
	return nil
}

// DefaultCatalog is the daily checklist applied to drivers and assistants.
func DefaultCatalog() []Question {
	return []Question{
		{Text: "Chegou no horário?", Order: 1, GoodWhenYes: true, RequireReasonWhen: ReasonWhenNo},
		{Text: "Está com o uniforme completo?", Order: 2, GoodWhenYes: true, RequireReasonWhen: ReasonWhenNo},
		{Text: "Fez o checklist do veículo?", Order: 3, GoodWhenYes: true, RequireReasonWhen: ReasonWhenNo},
		{Text: "Veículo apresentou problema mecânico?", Order: 4, GoodWhenYes: false, RequireReasonWhen: ReasonWhenYes},
		{Text: "Houve atraso na rota?", Order: 5, GoodWhenYes: false, RequireReasonWhen: ReasonWhenYes},
		{Text: "Entregas concluídas sem avaria?", Order: 6, GoodWhenYes: true, RequireReasonWhen: ReasonWhenNo},
		{Text: "Recebeu reclamação de cliente?", Order: 7, GoodWhenYes: false, RequireReasonWhen: ReasonWhenYes},
	}
}
