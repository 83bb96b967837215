package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"xpvcc/internal/api"
	"xpvcc/internal/editor"
	"xpvcc/internal/install"
	"xpvcc/internal/logging"
	"xpvcc/internal/token"
)

func (s *apiServer) handleInstall(w http.ResponseWriter, r *http.Request) {
	var req api.InstallRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query()
	req.Version = firstValue(req.Version, query.Get("version"))
	req.Target = firstValue(req.Target, query.Get("target"))
	req.Host = firstValue(req.Host, query.Get("host"))
	if raw := query.Get("prefer_hub"); raw != "" && !req.PreferHub {
		preferHub, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeText(w, http.StatusBadRequest, fmt.Sprintf("invalid prefer_hub %q", raw))
			return
		}
		req.PreferHub = preferHub
	}

	setting, err := installSettingFrom(req)
	if err != nil {
		s.writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := s.daemon.dispatch.Dispatch(r.Context(), setting)
	if err != nil {
		status := install.HTTPStatus(err)
		logging.WithContext(r.Context(), s.log()).Warn("install dispatch failed",
			logging.Error(err),
			logging.Int("status", status),
		)
		s.writeText(w, status, install.PublicMessage(err))
		return
	}

	encoded, err := token.Encode(tok)
	if err != nil {
		s.writeText(w, http.StatusInternalServerError, "failed to encode completion token")
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewInstallResponse(tok, encoded))
}

func (s *apiServer) handleTell(w http.ResponseWriter, r *http.Request) {
	var req api.ConfirmRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query()
	req.InstalledPath = firstValue(req.Path(), query.Get("installed_path"), query.Get("installedPath"))
	req.CompletionToken = firstValue(req.Token(), query.Get("completion_token"), query.Get("completionToken"))

	path := req.Path()
	if path == "" {
		s.writeText(w, http.StatusBadRequest, "installed_path is required")
		return
	}
	rawToken := req.Token()
	if rawToken == "" {
		s.writeText(w, http.StatusBadRequest, "completion_token is required")
		return
	}
	tok, err := token.Decode(rawToken)
	if err != nil {
		// A token this daemon never issued is indistinguishable from a forged one.
		s.writeText(w, http.StatusForbidden, "Unknown completion token")
		return
	}

	installation, err := s.daemon.confirmer.Confirm(r.Context(), tok, path)
	if err != nil {
		s.writeText(w, install.HTTPStatus(err), install.PublicMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.ConfirmResponse{
		Installation: api.FromInstallation(*installation),
		Message:      "installation recorded",
	})
}

func (s *apiServer) handleInstallations(w http.ResponseWriter, r *http.Request) {
	installations, err := s.daemon.confirmer.List(r.Context())
	if err != nil {
		s.writeError(w, install.HTTPStatus(err), install.PublicMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.InstallationListResponse{Installations: api.FromInstallations(installations)})
}

func (s *apiServer) handlePendingDispatches(w http.ResponseWriter, r *http.Request) {
	pending, err := s.daemon.confirmer.Pending(r.Context())
	if err != nil {
		s.writeError(w, install.HTTPStatus(err), install.PublicMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.PendingDispatchListResponse{Dispatches: api.FromPendingInstalls(pending)})
}

func (s *apiServer) handleInstallation(w http.ResponseWriter, r *http.Request) {
	version, err := editor.ParseVersion(r.PathValue("version"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	host, err := hostOrCurrent(r.URL.Query().Get("host"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	installation, err := s.daemon.confirmer.Lookup(r.Context(), version, host)
	if err != nil {
		status := install.HTTPStatus(err)
		if install.IsKind(err, install.KindNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, install.PublicMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.InstallationResponse{Installation: api.FromInstallation(*installation)})
}

func (s *apiServer) handleVersions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.VersionListResponse{Versions: api.VersionCatalog(s.baseURL)})
}

func installSettingFrom(req api.InstallRequest) (editor.InstallSetting, error) {
	if strings.TrimSpace(req.Version) == "" {
		return editor.InstallSetting{}, errors.New("version is required")
	}
	version, err := editor.ParseVersion(req.Version)
	if err != nil {
		return editor.InstallSetting{}, err
	}
	target, err := editor.ParseTarget(req.Target)
	if err != nil {
		return editor.InstallSetting{}, err
	}
	host, err := hostOrCurrent(req.Host)
	if err != nil {
		return editor.InstallSetting{}, err
	}
	return editor.InstallSetting{
		Version:           version,
		Target:            target,
		Host:              host,
		PreferExternalHub: req.PreferHub,
	}, nil
}

func hostOrCurrent(value string) (editor.Host, error) {
	if strings.TrimSpace(value) != "" {
		return editor.ParseHost(value)
	}
	host, ok := editor.CurrentHost()
	if !ok {
		return "", errors.New("host is required on this platform")
	}
	return host, nil
}

func firstValue(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
