package handlers

import (
	"net/http"

	"github.com/dnachavez/ecowaste-sub001/internal/services"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/gin-gonic/gin"
)

// CreateTask POST /admin/tasks
func CreateTask(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation(err.Error()))
		return
	}

	task, err := services.CreateTask(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// UpdateTask PATCH /admin/tasks/:id
func UpdateTask(c *gin.Context) {
	var patch services.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, errors.Validation(err.Error()))
		return
	}

	task, err := services.UpdateTask(c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask DELETE /admin/tasks/:id
func DeleteTask(c *gin.Context) {
	if err := services.DeleteTask(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// ListTasks GET /tasks
func ListTasks(c *gin.Context) {
	tasks, err := services.ListTasks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
