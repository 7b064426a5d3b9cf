package dto

import (
	"topic-tasks/domain/models"
	"topic-tasks/domain/services"
)

func TaskToTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		UserID:    task.UserID,
		Content:   task.Content,
		Completed: task.Completed,
		Heading:   task.Heading,
	}
}

// TasksToTaskResponses never returns nil so the JSON body is [] rather than null.
func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, TaskToTaskResponse(task))
	}
	return responses
}

func TaskGroupsToResponse(groups *services.TaskGroups) TaskGroupsResponse {
	resp := TaskGroupsResponse{
		Groups:   make([]TaskGroupResponse, 0, len(groups.Groups)),
		Headings: groups.Headings,
		Summary: ProgressSummary{
			Total:     groups.Total,
			Completed: groups.Completed,
			Progress:  groups.Progress,
		},
	}
	if resp.Headings == nil {
		resp.Headings = []string{}
	}

	for _, g := range groups.Groups {
		resp.Groups = append(resp.Groups, TaskGroupResponse{
			Heading:   g.Heading,
			Anchor:    g.Anchor,
			Total:     g.Total,
			Completed: g.Completed,
			Progress:  g.Progress,
			Tasks:     TasksToTaskResponses(g.Tasks),
		})
	}
	return resp
}
