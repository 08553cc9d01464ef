// Package mocks provides ghttp handlers that emulate the Docker Engine API.
package mocks

import (
	"net/http"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

// FoundStatus selects between a found and a missing container response.
type FoundStatus bool

// Container lookup outcomes.
const (
	Found   FoundStatus = true
	Missing FoundStatus = false
)

// Mock response fixture for no-content status (204).
var noContentStatusResponse = ghttp.RespondWith(http.StatusNoContent, nil)

// ListContainersHandler verifies an all-containers list filtered by label and serves summaries.
func ListContainersHandler(label string, summaries ...container.Summary) http.HandlerFunc {
	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/json")),
		func(_ http.ResponseWriter, r *http.Request) {
			gomega.Expect(r.URL.Query().Get("all")).To(gomega.Equal("1"))

			args, err := filters.FromJSON(r.URL.Query().Get("filters"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(args.Get("label")).To(gomega.ConsistOf(label))
		},
		ghttp.RespondWithJSONEncoded(http.StatusOK, summaries),
	)
}

// GetContainerHandler returns a 404 if containerInfo is nil; otherwise, serves the provided info.
func GetContainerHandler(containerID string, containerInfo *container.InspectResponse) http.HandlerFunc {
	responseHandler := containerNotFoundResponse(containerID)
	if containerInfo != nil {
		responseHandler = ghttp.RespondWithJSONEncoded(http.StatusOK, containerInfo)
	}

	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/%v/json", containerID)),
		responseHandler,
	)
}

// StartContainerHandler returns 204 if found, 404 if not.
func StartContainerHandler(containerID string, found FoundStatus) http.HandlerFunc {
	return lifecycleHandler("POST", "/containers/"+containerID+"/start", containerID, found)
}

// StopContainerHandler verifies the stop timeout query and returns 204 if found, 404 if not.
func StopContainerHandler(containerID string, timeout string, found FoundStatus) http.HandlerFunc {
	return ghttp.CombineHandlers(
		func(_ http.ResponseWriter, r *http.Request) {
			gomega.Expect(r.URL.Query().Get("t")).To(gomega.Equal(timeout))
		},
		lifecycleHandler("POST", "/containers/"+containerID+"/stop", containerID, found),
	)
}

// KillContainerHandler verifies the signal and returns 204 if found, 404 if not.
func KillContainerHandler(containerID string, signal string, found FoundStatus) http.HandlerFunc {
	return ghttp.CombineHandlers(
		func(_ http.ResponseWriter, r *http.Request) {
			gomega.Expect(r.URL.Query().Get("signal")).To(gomega.Equal(signal))
		},
		lifecycleHandler("POST", "/containers/"+containerID+"/kill", containerID, found),
	)
}

// RemoveContainerHandler verifies a forced removal and returns 204 if found, 404 if not.
func RemoveContainerHandler(containerID string, found FoundStatus) http.HandlerFunc {
	return ghttp.CombineHandlers(
		func(_ http.ResponseWriter, r *http.Request) {
			gomega.Expect(r.URL.Query().Get("force")).To(gomega.Equal("1"))
		},
		lifecycleHandler("DELETE", "/containers/"+containerID, containerID, found),
	)
}

// ServerErrorHandler fails any request with a 500.
func ServerErrorHandler() http.HandlerFunc {
	return ghttp.RespondWithJSONEncoded(http.StatusInternalServerError, errorMessage{Message: "server error"})
}

func lifecycleHandler(method, suffix, containerID string, found FoundStatus) http.HandlerFunc {
	responseHandler := noContentStatusResponse
	if !found {
		responseHandler = containerNotFoundResponse(containerID)
	}

	return ghttp.CombineHandlers(
		ghttp.VerifyRequest(method, gomega.HaveSuffix(suffix)),
		responseHandler,
	)
}

type errorMessage struct {
	Message string `json:"message"`
}

// Includes a standard "No such container" message with the ID.
func containerNotFoundResponse(containerID string) http.HandlerFunc {
	return ghttp.RespondWithJSONEncoded(http.StatusNotFound, errorMessage{Message: "No such container: " + containerID})
}
