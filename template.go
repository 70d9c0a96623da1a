package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolhub/toolhub_backend/config"
	"github.com/toolhub/toolhub_backend/reports"
)

func (app *application) templateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		workbook, err := reports.BuildTemplateWorkbook()
		if err != nil {
			config.LogError(app.logger, "template.go", "templateHandler", "BuildTemplateWorkbook", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to build template"})
			return
		}
		buf, err := workbook.WriteToBuffer()
		if err != nil {
			config.LogError(app.logger, "template.go", "templateHandler", "WriteToBuffer", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to build template"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="tool_inventory_template.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
