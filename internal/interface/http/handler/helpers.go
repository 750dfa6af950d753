package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Ключ совпадает с middleware.ContextUserIDKey.
const contextUserIDKey = "userID"

func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDValue, exists := c.Get(contextUserIDKey)
	if !exists {
		return uuid.Nil, errors.New("userID не найден в контексте")
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("некорректный формат userID")
	}

	return userID, nil
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// parseFloatQuery возвращает nil для пустого значения и ошибку для нечислового.
func parseFloatQuery(c *gin.Context, key string) (*float64, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return nil, err
	}

	return &value, nil
}
