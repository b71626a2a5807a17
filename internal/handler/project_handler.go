/*
Package handler provides HTTP handler functions for saving and loading named
scene projects.

Project persistence is an explicit, client-driven operation: the client posts
its current scene snapshot under a name and can load it back later. Failures
are surfaced to the requester only and never disturb any live room.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scenesync/internal/app/project"
	"scenesync/internal/pkg/errs"
	"scenesync/internal/pkg/logx"
	"scenesync/internal/pkg/req"
	"scenesync/internal/pkg/resp"
)

// HandleListProjects returns the names of all saved projects.
func HandleListProjects(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Projects == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreDisabled))
			return
		}

		names, err := deps.Projects.List(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list projects")
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, names)
	}
}

// HandleGetProject loads the scene snapshot saved under the given name.
func HandleGetProject(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Projects == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreDisabled))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectNameInvalid))
			return
		}

		sc, err := deps.Projects.Get(r.Context(), name)
		if err != nil {
			if errors.Is(err, project.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProjectNotFound))
				return
			}

			logx.Error(err, "Failed to load project", "project", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, sc)
	}
}

// HandleSaveProject saves the posted scene snapshot under the given name,
// replacing any previous version.
func HandleSaveProject(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Projects == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreDisabled))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectNameInvalid))
			return
		}

		var sc project.Scene
		if customErr := req.BindJSON(w, r, &sc); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Projects.Put(r.Context(), name, &sc); err != nil {
			logx.Error(err, "Failed to save project", "project", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrProjectStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]bool{"saved": true})
	}
}
