package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// dateParam 按诊所时区解析 YYYY-MM-DD，参数为空时取今天
func (h *Handler) dateParam(r *http.Request, name string, loc *time.Location) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		now := h.now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}

	date, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期 %s 格式错误，应为 YYYY-MM-DD", value)
	}
	return date, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("参数 %s 必须是整数", name)
	}
	return n, nil
}

// professionalParam 未指定医生时返回 0
func professionalParam(r *http.Request) (int64, error) {
	value := r.URL.Query().Get("professionalId")
	if value == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("医生ID无效")
	}
	return id, nil
}
