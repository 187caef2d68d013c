package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/dto"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// projectHandler handles HTTP requests related to projects and their schedules.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps}
}

// registerProjectRoutes registers routes related to projects.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:projectID", h.getProject)
		projects.GET("/:projectID/installments", h.listInstallments)
		projects.POST("/:projectID/installments/:installmentID/cancel", h.cancelInstallment)
		projects.GET("/:projectID/contractor-payments", h.listContractorPayments)
		projects.POST("/:projectID/contractor-payments", h.createContractorPayment)
		projects.POST("/:projectID/archive", h.archiveProject)
	}
}

// createProjectResponse bundles the project with its generated schedule.
type createProjectResponse struct {
	Project      dto.ProjectResponse       `json:"project"`
	Installments []dto.InstallmentResponse `json:"installments"`
}

func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor"})
		return
	}

	project, installments, err := h.projectService.CreateProject(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, createProjectResponse{
		Project:      dto.ToProjectResponse(project),
		Installments: dto.ToInstallmentResponses(installments),
	})
}

func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listProjects", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	projects, nextToken, err := h.projectService.ListProjects(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	responses := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = dto.ToProjectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{
		Projects:  responses,
		NextToken: nextToken,
	})
}

func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	project, err := h.projectService.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

func (h *projectHandler) listInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	installments, err := h.projectService.ListProjectInstallments(c.Request.Context(), projectID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListInstallmentsResponse{
		Installments: dto.ToInstallmentResponses(installments),
	})
}

func (h *projectHandler) cancelInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor"})
		return
	}

	if err := h.projectService.CancelInstallment(c.Request.Context(), installmentID, actor); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *projectHandler) listContractorPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	payments, err := h.projectService.ListContractorPayments(c.Request.Context(), projectID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	responses := make([]dto.ContractorPaymentResponse, len(payments))
	for i := range payments {
		responses[i] = dto.ToContractorPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, gin.H{"contractorPayments": responses})
}

func (h *projectHandler) createContractorPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.CreateContractorPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createContractorPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor"})
		return
	}

	payment, err := h.projectService.CreateContractorPayment(c.Request.Context(), projectID, req, actor)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToContractorPaymentResponse(payment))
}

func (h *projectHandler) archiveProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor"})
		return
	}

	if err := h.projectService.ArchiveProject(c.Request.Context(), projectID, actor); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
