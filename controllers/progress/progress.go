package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"skillstream-backend/controllers/authentication"
	"skillstream-backend/services"
)

// GetProgress: сводка прохождения курса
func GetProgress(w http.ResponseWriter, r *http.Request, svc *services.ProgressService) {
	userID := authentication.UserID(r.Context())

	summary, err := svc.Summary(userID)
	if err != nil {
		log.Printf("Ошибка при подсчете прогресса: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch progress")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// GetWatchedVideos: список завершенных видео
func GetWatchedVideos(w http.ResponseWriter, r *http.Request, svc *services.ProgressService) {
	userID := authentication.UserID(r.Context())

	watched, err := svc.WatchedVideos(userID)
	if err != nil {
		log.Printf("Ошибка при получении просмотренных видео: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch watched videos")
		return
	}

	writeJSON(w, http.StatusOK, watched)
}

// UpdateProgress: строгое обновление прогресса текущего видео.
// Перескакивать на другое видео запрещено.
func UpdateProgress(w http.ResponseWriter, r *http.Request, svc *services.ProgressService) {
	userID := authentication.UserID(r.Context())

	var input services.UpdateProgressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updated, err := svc.Update(userID, input)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": verr.Fields})
		case errors.Is(err, services.ErrCannotSkip):
			writeError(w, http.StatusBadRequest, "You cannot skip to this video")
		default:
			log.Printf("Ошибка при обновлении прогресса: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update progress")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Progress updated successfully",
		"progress": updated,
	})
}

// GetCurrentModule: модуль текущего (самого раннего незавершенного) видео
func GetCurrentModule(w http.ResponseWriter, r *http.Request, svc *services.ProgressService) {
	userID := authentication.UserID(r.Context())

	module, videoProgress, err := svc.CurrentModule(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoCurrentProgress) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No current progress found"})
			return
		}
		log.Printf("Ошибка при поиске текущего модуля: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch current module")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentModule": module,
		"videoProgress": videoProgress,
	})
}

// GetNextModule: переход к модулю со следующим серийным номером,
// при необходимости с зачислением в его первое видео
func GetNextModule(w http.ResponseWriter, r *http.Request, svc *services.ProgressService) {
	userID := authentication.UserID(r.Context())

	currentSerialNumber, err := strconv.Atoi(r.URL.Query().Get("currentSerialNumber"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": []services.FieldError{
			{Field: "currentSerialNumber", Message: "must be an integer"},
		}})
		return
	}

	module, videoProgress, err := svc.NextModule(userID, currentSerialNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoNextModule):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No next module found"})
		case errors.Is(err, services.ErrModuleHasNoVideos):
			writeError(w, http.StatusBadRequest, "Module has no videos")
		default:
			log.Printf("Ошибка при поиске следующего модуля: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch next module")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nextModule":    module,
		"videoProgress": videoProgress,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
