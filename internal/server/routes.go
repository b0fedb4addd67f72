package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/importer"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

type idPath struct {
	ID int64 `path:"id" minimum:"1"`
}

type projectBody struct {
	Body contract.ProjectResponse `json:"body"`
}

type taskBody struct {
	Body contract.TaskResponse `json:"body"`
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerProjects(api huma.API, svc service.ProjectService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []contract.ProjectResponse `json:"body"`
	}, error) {
		items, err := svc.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []contract.ProjectResponse `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-project",
		Method:        http.MethodPost,
		Path:          "/projects",
		Summary:       "Create project",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body contract.ProjectCreateRequest `json:"body"`
	}) (*projectBody, error) {
		p, err := svc.Create(ctx, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectBody{Body: *p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{id}",
		Summary:     "Get project",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*projectBody, error) {
		p, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectBody{Body: *p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPut,
		Path:        "/projects/{id}",
		Summary:     "Update project",
		Description: "Absent fields are left untouched. parent_id 0 moves the project to the root.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		idPath
		Body contract.ProjectUpdateRequest `json:"body"`
	}) (*projectBody, error) {
		p, err := svc.Update(ctx, input.ID, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectBody{Body: *p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-project",
		Method:        http.MethodDelete,
		Path:          "/projects/{id}",
		Summary:       "Delete project",
		Description:   "Its tasks are removed with it. Sub-projects are kept as roots.",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recompute-project",
		Method:      http.MethodPost,
		Path:        "/projects/{id}/recompute",
		Summary:     "Recompute project state",
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *idPath) (*projectBody, error) {
		p, err := svc.Recompute(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectBody{Body: *p}, nil
	})
}

func registerTasks(api huma.API, svc service.TaskService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []contract.TaskResponse `json:"body"`
	}, error) {
		items, err := svc.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []contract.TaskResponse `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body contract.TaskCreateRequest `json:"body"`
	}) (*taskBody, error) {
		task, err := svc.Create(ctx, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskBody{Body: *task}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*taskBody, error) {
		task, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskBody{Body: *task}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update task",
		Description: "Absent fields are left untouched. Timestamps follow the state.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		idPath
		Body contract.TaskUpdateRequest `json:"body"`
	}) (*taskBody, error) {
		task, err := svc.Update(ctx, input.ID, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskBody{Body: *task}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete task and its subtasks",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerReports(api huma.API, svc service.ReportService) {
	huma.Register(api, huma.Operation{
		OperationID: "active-report",
		Method:      http.MethodGet,
		Path:        "/reports/active",
		Summary:     "Projects and tasks active on a date",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Date string `query:"date" required:"true" doc:"Day in YYYY-MM-DD form" example:"2026-05-04"`
	}) (*struct {
		Body contract.ActiveReport `json:"body"`
	}, error) {
		date, err := time.Parse(time.DateOnly, input.Date)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD", nil)
		}
		report, err := svc.ActiveOn(ctx, date)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body contract.ActiveReport `json:"body"`
		}{Body: *report}, nil
	})
}

func registerImport(api huma.API, svc service.ImportService) {
	huma.Register(api, huma.Operation{
		OperationID:   "import-outline",
		Method:        http.MethodPost,
		Path:          "/outlines",
		Summary:       "Create projects and tasks from an outline",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body importer.Outline `json:"body"`
	}) (*struct {
		Body contract.ImportResult `json:"body"`
	}, error) {
		result, err := svc.Import(ctx, &input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body contract.ImportResult `json:"body"`
		}{Body: *result}, nil
	})
}
