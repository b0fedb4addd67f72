package service

import (
	"context"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/db"
)

type reportService struct {
	lifecycle
}

func NewReportService(uow db.UnitOfWork, opts ...Option) ReportService {
	return &reportService{lifecycle: newLifecycle(uow, opts)}
}

// ActiveOn lists the projects whose period contains date, in id order, each
// with those of its own tasks that are active on the same date.
func (s *reportService) ActiveOn(ctx context.Context, date time.Time) (_ *contract.ActiveReport, err error) {
	ctx, done := s.begin(ctx, "report.active", map[string]any{"date": date.Format(time.DateOnly)})
	defer func() { done(err) }()

	report := &contract.ActiveReport{Date: date, Projects: []contract.ActiveProject{}}
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		projects, err := r.projects.List(ctx)
		if err != nil {
			return err
		}
		var ids []int64
		rows := map[int64]int{}
		for _, p := range projects {
			if !p.ActiveOn(date) {
				continue
			}
			rows[p.ID] = len(report.Projects)
			ids = append(ids, p.ID)
			report.Projects = append(report.Projects, contract.ActiveProject{
				Project: contract.NewProjectResponse(p),
				Tasks:   []contract.TaskResponse{},
			})
		}
		if len(ids) == 0 {
			return nil
		}

		tasks, err := r.tasks.ListByProjectIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			if !t.ActiveOn(date) {
				continue
			}
			row := &report.Projects[rows[t.ProjectID]]
			row.Tasks = append(row.Tasks, contract.NewTaskResponse(t))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
