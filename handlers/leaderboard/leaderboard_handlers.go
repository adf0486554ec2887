package leaderboard

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"seenaf/middleware"
	"seenaf/realtime"
	"seenaf/services"
	"seenaf/utils/permissions"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xuri/excelize/v2"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetLeaderboard returns the ranked leaderboard
// @Summary Leaderboard
// @Description Ranked users by total score descending. Ties break on earliest latest-solve time, then user id, so the order is stable.
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Success 200 {array} services.LeaderboardEntry
// @Failure 401 {object} map[string]string
// @Router /leaderboard [get]
// @Security Bearer
func GetLeaderboard(c *gin.Context) {
	if _, err := middleware.GetActorFromRequest(c); err != nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := services.Rank(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchLeaderboard)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ExportLeaderboard writes the leaderboard as an Excel workbook
// @Summary Export leaderboard
// @Description Download the full leaderboard as an .xlsx file (admin only)
// @Tags Leaderboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401,403,500 {object} map[string]string
// @Router /leaderboard/export [get]
// @Security Bearer
func ExportLeaderboard(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if !permissions.IsAdmin(actor) {
		response.Error(c, http.StatusForbidden, ErrNoPermissionExport)
		return
	}

	entries, err := services.Rank(500)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedExportLeaderboard)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leaderboard"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Username", "Total Score", "Last Solve"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, entry := range entries {
		values := []interface{}{entry.Rank, entry.Username, entry.TotalScore}
		if entry.LastSolveAt != nil {
			values = append(values, entry.LastSolveAt.Format(time.RFC3339))
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("leaderboard-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Printf("Failed to write leaderboard export: %v", err)
	}
}

// SolveFeed streams solve announcements over a WebSocket
// @Summary Solve feed
// @Description WebSocket endpoint broadcasting every correct submission as it happens
// @Tags Leaderboard
// @Success 101
// @Failure 401 {object} map[string]string
// @Router /leaderboard/feed [get]
// @Security Bearer
func SolveFeed(c *gin.Context) {
	if _, err := middleware.GetActorFromRequest(c); err != nil {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrWebSocketUpgrade)
		return
	}

	realtime.RegisterClient(conn)
	defer func() {
		realtime.UnregisterClient(conn)
		conn.Close()
	}()

	// The feed is write-only; reads only detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
