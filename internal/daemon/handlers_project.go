package daemon

import (
	"net/http"

	"xpvcc/internal/api"
	"xpvcc/internal/project"
)

func (s *apiServer) handleProjectAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	action := r.PathValue("action")

	if id == "new" {
		if _, err := project.ParseTemplateKind(action); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.notImplemented(w, "new_project")
		return
	}

	var operation string
	switch action {
	case "open":
		operation = "open_project"
	case "backup":
		operation = "backup_project"
	default:
		http.NotFound(w, r)
		return
	}
	if _, err := project.ParseID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.notImplemented(w, operation)
}

func (s *apiServer) handleProjectDependency(w http.ResponseWriter, r *http.Request) {
	if _, err := project.ParseID(r.PathValue("id")); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.notImplemented(w, "project_dependency")
}

func (s *apiServer) notImplemented(w http.ResponseWriter, operation string) {
	s.writeJSON(w, http.StatusNotImplemented, api.NotImplementedResponse{
		Error:     "not implemented",
		Operation: operation,
	})
}
