package services

import (
	"strings"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
)

// TaskInput is the validated record produced by the admin authoring form.
type TaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Type        models.TaskType   `json:"type"`
	Target      int               `json:"target"`
	RewardType  models.RewardType `json:"rewardType"`
	XPReward    int               `json:"xpReward"`
	BadgeID     *string           `json:"badgeId"`
}

// TaskPatch holds the fields an admin may change on an existing task.
// Nil pointers mean "leave unchanged".
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Target      *int    `json:"target"`
	XPReward    *int    `json:"xpReward"`
}

func validateTaskInput(in TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.Validation("Task title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.Validation("Task description is required")
	}
	if !models.ValidNewTaskType(in.Type) {
		return errors.Validation("Unknown task type: " + string(in.Type))
	}
	if in.Target < 1 {
		return errors.Validation("Task target must be at least 1")
	}
	if in.XPReward < 0 {
		return errors.Validation("XP reward cannot be negative")
	}
	switch in.RewardType {
	case models.RewardTypeXP:
	case models.RewardTypeBadge:
		if in.BadgeID == nil || *in.BadgeID == "" {
			return errors.Validation("Badge reward requires a badgeId")
		}
	default:
		return errors.Validation("Unknown reward type: " + string(in.RewardType))
	}
	return nil
}

// CreateTask validates and persists a new task definition. Admin-only at the
// transport layer.
func CreateTask(in TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	if in.RewardType == models.RewardTypeBadge {
		var count int64
		if err := database.DB.Model(&models.Badge{}).Where("id = ?", *in.BadgeID).Count(&count).Error; err != nil {
			return nil, errors.Transport("Failed to check badge")
		}
		if count == 0 {
			return nil, errors.NotFound("Badge not found: " + *in.BadgeID)
		}
	}

	task := models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Target:      in.Target,
		RewardType:  in.RewardType,
		XPReward:    in.XPReward,
		BadgeID:     in.BadgeID,
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	publishTasks()
	return &task, nil
}

// UpdateTask applies a patch to a task definition. Tasks already referenced
// by a grant are frozen: rewriting their reward terms would change history.
func UpdateTask(id string, patch TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := database.DB.First(&task, "id = ?", id).Error; err != nil {
		return nil, errors.NotFound("Task not found")
	}

	var granted int64
	if err := database.DB.Model(&models.Grant{}).Where("task_id = ?", id).Count(&granted).Error; err != nil {
		return nil, errors.Transport("Failed to check grants")
	}
	if granted > 0 {
		return nil, errors.Conflict("Task already has grants and cannot be modified")
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, errors.Validation("Task title is required")
		}
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, errors.Validation("Task description is required")
		}
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Target != nil {
		if *patch.Target < 1 {
			return nil, errors.Validation("Task target must be at least 1")
		}
		updates["target"] = *patch.Target
	}
	if patch.XPReward != nil {
		if *patch.XPReward < 0 {
			return nil, errors.Validation("XP reward cannot be negative")
		}
		updates["xp_reward"] = *patch.XPReward
	}
	if len(updates) == 0 {
		return &task, nil
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.Model(&task).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	publishTasks()
	return &task, nil
}

// DeleteTask removes a task definition and its progress rows. Grants are
// append-only and survive the task that produced them.
func DeleteTask(id string) error {
	var task models.Task
	if err := database.DB.First(&task, "id = ?", id).Error; err != nil {
		return errors.NotFound("Task not found")
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		if err := database.DB.Where("task_id = ?", id).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		return database.DB.Delete(&task).Error
	})
	if err != nil {
		return err
	}

	publishTasks()
	return nil
}

// ListTasks returns all task definitions, newest first.
func ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := database.DB.Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, errors.Transport("Failed to load tasks")
	}
	return tasks, nil
}

// CreateBadge validates and persists a badge definition. Admin-only at the
// transport layer; the admin console's HTTP endpoint lands here.
func CreateBadge(name, description, icon string) (*models.Badge, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Validation("Badge name is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, errors.Validation("Badge description is required")
	}

	badge := models.Badge{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Icon:        icon,
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.Create(&badge).Error
	})
	if err != nil {
		return nil, err
	}

	publishBadges()
	return &badge, nil
}

// ListBadges returns all badge definitions.
func ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	if err := database.DB.Order("created_at desc").Find(&badges).Error; err != nil {
		return nil, errors.Transport("Failed to load badges")
	}
	return badges, nil
}

func publishTasks() {
	if tasks, err := ListTasks(); err == nil {
		realtime.Bus.Publish("tasks", tasks)
	}
}

func publishBadges() {
	if badges, err := ListBadges(); err == nil {
		realtime.Bus.Publish("badges", badges)
	}
}
