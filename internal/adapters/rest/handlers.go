package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/quitplan/internal/plantemplate"
	"github.com/example/quitplan/internal/ports/primary"
)

type handlers struct {
	svc Services
}

// ------------------------------
// Stages
// ------------------------------

type stageBody struct {
	PlanID      string `json:"plan_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// canReadPlan lets coaches through and restricts users to their own plans.
// It writes the error response itself and reports whether to continue.
func (h *handlers) canReadPlan(c *gin.Context, planID string) bool {
	actor := actorOf(c)
	if actor.IsCoach() {
		return true
	}
	plan, err := h.svc.Plans.GetPlan(c.Request.Context(), planID)
	if err != nil {
		writeError(c, err)
		return false
	}
	if plan.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	}
	return true
}

func (h *handlers) listStages(c *gin.Context) {
	if !h.canReadPlan(c, c.Param("planId")) {
		return
	}
	stages, err := h.svc.Stages.ListStages(c.Request.Context(), c.Param("planId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stages)
}

func (h *handlers) nextStageNumber(c *gin.Context) {
	if !h.canReadPlan(c, c.Param("planId")) {
		return
	}
	n, err := h.svc.Stages.NextStageNumber(c.Request.Context(), c.Param("planId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_stage_number": n})
}

func (h *handlers) createStage(c *gin.Context) {
	var body stageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	stage, err := h.svc.Stages.CreateStage(c.Request.Context(), primary.CreateStageRequest{
		PlanID:      body.PlanID,
		CoachID:     actorOf(c).ID,
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stage)
}

func (h *handlers) validateStage(c *gin.Context) {
	var body stageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Stages.ValidateStageSequence(c.Request.Context(), primary.ValidateStageRequest{
		PlanID:    body.PlanID,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// importStages takes a YAML plan template as the request body.
func (h *handlers) importStages(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	tpl, err := plantemplate.Parse(data)
	if err != nil {
		badRequest(c, err)
		return
	}

	stages, err := h.svc.Stages.ImportStages(c.Request.Context(), primary.ImportStagesRequest{
		PlanID:  c.Query("plan_id"),
		CoachID: actorOf(c).ID,
		Stages:  tpl.Drafts(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stages)
}

func (h *handlers) deleteStage(c *gin.Context) {
	err := h.svc.Stages.DeleteStage(c.Request.Context(), primary.DeleteStageRequest{
		StageID: c.Param("id"),
		CoachID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ------------------------------
// Tasks
// ------------------------------

type taskBody struct {
	StageID     string `json:"stage_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

func (h *handlers) listTasks(c *gin.Context) {
	if !actorOf(c).IsCoach() {
		stage, err := h.svc.Stages.GetStage(c.Request.Context(), c.Param("stageId"))
		if err != nil {
			writeError(c, err)
			return
		}
		if !h.canReadPlan(c, stage.PlanID) {
			return
		}
	}
	tasks, err := h.svc.Tasks.ListTasks(c.Request.Context(), c.Param("stageId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *handlers) createTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.svc.Tasks.CreateTask(c.Request.Context(), primary.CreateTaskRequest{
		StageID:     body.StageID,
		CoachID:     actorOf(c).ID,
		Title:       body.Title,
		Description: body.Description,
		Deadline:    body.Deadline,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *handlers) updateTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.svc.Tasks.UpdateTask(c.Request.Context(), primary.UpdateTaskRequest{
		TaskID:      c.Param("id"),
		CoachID:     actorOf(c).ID,
		Title:       body.Title,
		Description: body.Description,
		Deadline:    body.Deadline,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handlers) deleteTask(c *gin.Context) {
	err := h.svc.Tasks.DeleteTask(c.Request.Context(), primary.DeleteTaskRequest{
		TaskID:  c.Param("id"),
		CoachID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// completeTask is idempotent: a repeat returns 200 with already_completed.
// A locked last task is a 409 denial carrying the refreshed progress.
func (h *handlers) completeTask(c *gin.Context) {
	resp, err := h.svc.Tasks.CompleteTask(c.Request.Context(), primary.CompleteTaskRequest{
		TaskID: c.Param("id"),
		UserID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if resp.Denial != nil {
		c.JSON(http.StatusConflict, gin.H{
			"denied":       true,
			"code":         resp.Denial.Code,
			"reason":       resp.Denial.Reason,
			"locked_until": resp.Denial.LockedUntil,
			"task":         resp.Task,
			"progress":     resp.Progress,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ------------------------------
// Plans
// ------------------------------

type requestPlanBody struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type createPlanBody struct {
	PlanID         string `json:"plan_id"`
	Name           string `json:"name"`
	Reason         string `json:"reason"`
	StartDate      string `json:"start_date"`
	TargetQuitDate string `json:"target_quit_date"`
}

func (h *handlers) requestPlan(c *gin.Context) {
	var body requestPlanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := h.svc.Plans.RequestPlan(c.Request.Context(), primary.RequestPlanRequest{
		UserID: actorOf(c).ID,
		Name:   body.Name,
		Reason: body.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *handlers) approvePlan(c *gin.Context) {
	plan, err := h.svc.Plans.ApprovePlan(c.Request.Context(), primary.ReviewPlanRequest{
		PlanID:  c.Param("id"),
		CoachID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handlers) rejectPlan(c *gin.Context) {
	plan, err := h.svc.Plans.RejectPlan(c.Request.Context(), primary.ReviewPlanRequest{
		PlanID:  c.Param("id"),
		CoachID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handlers) createPlan(c *gin.Context) {
	var body createPlanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := h.svc.Plans.CreatePlan(c.Request.Context(), primary.CreatePlanRequest{
		PlanID:         body.PlanID,
		CoachID:        actorOf(c).ID,
		Name:           body.Name,
		Reason:         body.Reason,
		StartDate:      body.StartDate,
		TargetQuitDate: body.TargetQuitDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// listPlans scopes users to their own plans; coaches may filter freely.
func (h *handlers) listPlans(c *gin.Context) {
	actor := actorOf(c)
	filters := primary.PlanFilters{
		UserID:  c.Query("user_id"),
		CoachID: c.Query("coach_id"),
		Status:  c.Query("status"),
	}
	if !actor.IsCoach() {
		filters.UserID = actor.ID
	}

	plans, err := h.svc.Plans.ListPlans(c.Request.Context(), filters)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *handlers) getPlan(c *gin.Context) {
	plan, err := h.svc.Plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if actor := actorOf(c); !actor.IsCoach() && plan.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ------------------------------
// Progression
// ------------------------------

func (h *handlers) getProgression(c *gin.Context) {
	if !h.canReadPlan(c, c.Param("id")) {
		return
	}
	progression, err := h.svc.Progression.GetProgression(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progression)
}

func (h *handlers) advance(c *gin.Context) {
	resp, err := h.svc.Progression.MoveToNextStage(c.Request.Context(), primary.AdvanceRequest{
		PlanID: c.Param("id"),
		UserID: actorOf(c).ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ------------------------------
// Rating
// ------------------------------

type feedbackBody struct {
	FeedbackType string `json:"feedback_type"`
	PlanID       string `json:"plan_id"`
	CoachID      string `json:"coach_id"`
	Rating       int    `json:"rating"`
	Content      string `json:"content"`
}

func (h *handlers) promptRequest(c *gin.Context) primary.PromptRequest {
	explicit, _ := strconv.ParseBool(c.Query("explicit"))
	return primary.PromptRequest{
		SessionID: sessionOf(c),
		PlanID:    c.Param("id"),
		UserID:    actorOf(c).ID,
		Explicit:  explicit,
	}
}

func (h *handlers) checkPrompt(c *gin.Context) {
	decision, err := h.svc.Ratings.CheckPrompt(c.Request.Context(), h.promptRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

func (h *handlers) dismissPrompt(c *gin.Context) {
	if err := h.svc.Ratings.DismissPrompt(c.Request.Context(), h.promptRequest(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) submitFeedback(c *gin.Context) {
	var body feedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	rating, err := h.svc.Ratings.SubmitRating(c.Request.Context(), primary.SubmitRatingRequest{
		SessionID:    sessionOf(c),
		PlanID:       body.PlanID,
		UserID:       actorOf(c).ID,
		CoachID:      body.CoachID,
		Rating:       body.Rating,
		Content:      body.Content,
		FeedbackType: body.FeedbackType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// ------------------------------
// Audit log
// ------------------------------

func (h *handlers) listLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.svc.Logs.ListLogs(c.Request.Context(), primary.LogFilters{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		ActorID:    c.Query("actor_id"),
		Limit:      limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
