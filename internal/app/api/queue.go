package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func registerQueueRoutes(r *gin.RouterGroup) {
	r.GET("/queue/:telescopeID", getQueue)
	r.DELETE("/queue", leaveQueues)
}

// getQueue — очередь телескопа для отображения. Позиция вычисляется
// из порядка, отдельно она нигде не хранится.
func getQueue(c *gin.Context) {
	telescopeID, err := strconv.Atoi(c.Param("telescopeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID телескопа"})
		return
	}

	queue, err := repo.QueueFor(c.Request.Context(), telescopeID)
	if err != nil {
		logrus.Error("Ошибка получения очереди: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type entry struct {
		QueueID    int    `json:"queue_id"`
		UserID     int    `json:"user_id"`
		EnqueuedAt string `json:"enqueued_at"`
		Position   int    `json:"position"`
	}
	items := make([]entry, 0, len(queue))
	for i, e := range queue {
		items = append(items, entry{
			QueueID:    e.QueueID,
			UserID:     e.UserID,
			EnqueuedAt: e.EnqueuedAt.Format("2006-01-02T15:04:05Z07:00"),
			Position:   i + 1,
		})
	}
	c.JSON(http.StatusOK, items)
}

// leaveQueues убирает пользователя из очередей всех телескопов
func leaveQueues(c *gin.Context) {
	if err := eng.Dequeue(c.Request.Context(), currentUserID(c)); err != nil {
		logrus.Error("Ошибка выхода из очереди: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Вы вышли из очереди"})
}
