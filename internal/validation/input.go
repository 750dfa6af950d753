package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxCropNameLength    = 100
	MaxVarietyLength     = 100
	MaxDescriptionLength = 5000
	MaxMessageLength     = 1000
	MaxAddressLength     = 200
	MaxImagePathLength   = 500
)

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Validation(fmt.Sprintf("%s должен быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.Validation(fmt.Sprintf("%s должен быть не более %d символов", fieldName, max))
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая после обрезки пробелов.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Validation(fieldName + " обязателен")
	}
	return nil
}

func ValidateCropName(name string) error {
	if err := ValidateNonEmpty("название культуры", name); err != nil {
		return err
	}
	return ValidateLength("название культуры", strings.TrimSpace(name), 0, MaxCropNameLength)
}

func ValidateMessage(message string) error {
	return ValidateLength("сообщение", message, 0, MaxMessageLength)
}

// ValidatePincode принимает пустое значение или шестизначный индекс.
func ValidatePincode(pincode string) error {
	if pincode == "" || pincodeRe.MatchString(pincode) {
		return nil
	}
	return apperror.Validation("pincode должен состоять из 6 цифр")
}

func ValidateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return apperror.Validation("широта должна быть в диапазоне от -90 до 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return apperror.Validation("долгота должна быть в диапазоне от -180 до 180")
	}
	return nil
}

func ValidateImages(images []string, max int) error {
	if len(images) > max {
		return apperror.Validation(fmt.Sprintf("не более %d изображений", max))
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return apperror.Validation("путь к изображению не может быть пустым")
		}
		if err := ValidateLength("путь к изображению", img, 0, MaxImagePathLength); err != nil {
			return err
		}
	}
	return nil
}
