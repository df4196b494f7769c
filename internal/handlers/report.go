package handlers

import (
	"context"
	"strconv"
	"time"

	"distro-go/internal/database"
	"distro-go/internal/lib/response"
	"distro-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportHandler handles admin reporting routes
type ReportHandler struct{}

// NewReportHandler creates a new report handler
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// SellerPerformance aggregates sales per seller across pending and
// assigned invoices, joined with their monthly target.
func (h *ReportHandler) SellerPerformance(c *fiber.Ctx) error {
	month := c.Query("month", time.Now().Format("January"))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":    "$seller_emp_no",
			"bills":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$total_amount"},
		}},
	}

	type sellerTotal struct {
		EmployeeNo string  `bson:"_id"`
		Bills      int     `bson:"bills"`
		Amount     float64 `bson:"amount"`
	}

	totals := map[string]*sellerTotal{}
	for _, col := range []string{models.ColInvoices, models.ColAssignedInvoices} {
		cursor, err := database.GetMongoCollection(col).Aggregate(ctx, pipeline)
		if err != nil {
			return response.Error(c, 500, "Failed to aggregate sales")
		}

		var rows []sellerTotal
		if err := cursor.All(ctx, &rows); err != nil {
			return response.Error(c, 500, "Failed to decode sales")
		}
		for _, row := range rows {
			if existing, ok := totals[row.EmployeeNo]; ok {
				existing.Bills += row.Bills
				existing.Amount += row.Amount
			} else {
				r := row
				totals[row.EmployeeNo] = &r
			}
		}
	}

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	cursor, err := targets.Find(ctx, bson.M{"month": month})
	if err != nil {
		return response.Error(c, 500, "Failed to fetch targets")
	}
	defer cursor.Close(ctx)

	var targetDocs []models.EmployeeTarget
	cursor.All(ctx, &targetDocs)
	targetByEmp := map[string]models.EmployeeTarget{}
	for _, t := range targetDocs {
		targetByEmp[t.EmployeeNo] = t
	}

	type performance struct {
		EmployeeNo  string  `json:"employee_no"`
		Bills       int     `json:"bills"`
		Amount      float64 `json:"amount"`
		Target      float64 `json:"target"`
		Achievement float64 `json:"achievement"`
	}

	report := make([]performance, 0, len(totals))
	for empNo, total := range totals {
		p := performance{EmployeeNo: empNo, Bills: total.Bills, Amount: total.Amount}
		if t, ok := targetByEmp[empNo]; ok {
			p.Target = t.Target
			p.Achievement = t.Achievement
		}
		report = append(report, p)
	}

	return response.Success(c, 200, fiber.Map{
		"month":   month,
		"sellers": report,
	})
}

// AssignedInvoices lists assigned bills merged with their current delivery
// status, with optional date and status filters and a total amount sum.
func (h *ReportHandler) AssignedInvoices(c *fiber.Ctx) error {
	filter := bson.M{}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return response.BadRequest(c, "from must be YYYY-MM-DD")
		}
		filter["assigned_at"] = bson.M{"$gte": t}
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return response.BadRequest(c, "to must be YYYY-MM-DD")
		}
		if existing, ok := filter["assigned_at"].(bson.M); ok {
			existing["$lte"] = t.Add(24*time.Hour - time.Nanosecond)
		} else {
			filter["assigned_at"] = bson.M{"$lte": t.Add(24*time.Hour - time.Nanosecond)}
		}
	}

	var statusFilter models.DeliveryStatus
	if s := c.Query("status"); s != "" {
		parsed, err := models.ParseDeliveryStatus(s)
		if err != nil {
			return response.BadRequest(c, "Unknown status: "+s)
		}
		statusFilter = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	assigned := database.GetMongoCollection(models.ColAssignedInvoices)
	cursor, err := assigned.Find(ctx, filter, options.Find().SetSort(bson.M{"assigned_at": -1}))
	if err != nil {
		return response.Error(c, 500, "Failed to fetch assigned invoices")
	}
	defer cursor.Close(ctx)

	var invoices []models.AssignedInvoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return response.Error(c, 500, "Failed to decode assigned invoices")
	}

	// Current status per bill; bills without a status doc are still Pending.
	statusByBill := map[string]models.DeliveryStatus{}
	statuses := database.GetMongoCollection(models.ColDeliveryStatus)
	sCursor, err := statuses.Find(ctx, bson.M{})
	if err == nil {
		var docs []models.DeliveryStatusRecord
		sCursor.All(ctx, &docs)
		for _, doc := range docs {
			statusByBill[doc.BillNo] = doc.DeliveryStatus
		}
	}

	type reportRow struct {
		models.AssignedInvoice `bson:",inline"`
		DeliveryStatus         models.DeliveryStatus `json:"delivery_status"`
	}

	rows := make([]reportRow, 0, len(invoices))
	var totalAmount float64
	for _, inv := range invoices {
		status, ok := statusByBill[strconv.Itoa(inv.BillNo)]
		if !ok {
			status = models.StatusPending
		}
		if statusFilter != "" && status != statusFilter {
			continue
		}
		rows = append(rows, reportRow{AssignedInvoice: inv, DeliveryStatus: status})
		totalAmount += inv.TotalAmount
	}

	return response.Success(c, 200, fiber.Map{
		"invoices":     rows,
		"total_amount": totalAmount,
		"count":        len(rows),
	})
}

// DeliveryOutcomes summarizes terminal outcomes per deliverer over a date
// range.
func (h *ReportHandler) DeliveryOutcomes(c *fiber.Ctx) error {
	match := bson.M{}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return response.BadRequest(c, "from must be YYYY-MM-DD")
		}
		match["completed_at"] = bson.M{"$gte": t}
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return response.BadRequest(c, "to must be YYYY-MM-DD")
		}
		if existing, ok := match["completed_at"].(bson.M); ok {
			existing["$lte"] = t.Add(24*time.Hour - time.Nanosecond)
		} else {
			match["completed_at"] = bson.M{"$lte": t.Add(24*time.Hour - time.Nanosecond)}
		}
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id": bson.M{
				"employee_no": "$employee_no",
				"status":      "$delivery_status",
			},
			"count": bson.M{"$sum": 1},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	history := database.GetMongoCollection(models.ColHistory)
	cursor, err := history.Aggregate(ctx, pipeline)
	if err != nil {
		return response.Error(c, 500, "Failed to aggregate deliveries")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key struct {
			EmployeeNo string                `bson:"employee_no"`
			Status     models.DeliveryStatus `bson:"status"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return response.Error(c, 500, "Failed to decode deliveries")
	}

	type outcome struct {
		EmployeeNo string `json:"employee_no"`
		Completed  int    `json:"completed"`
		Rejected   int    `json:"rejected"`
	}

	byEmp := map[string]*outcome{}
	for _, row := range rows {
		o, ok := byEmp[row.Key.EmployeeNo]
		if !ok {
			o = &outcome{EmployeeNo: row.Key.EmployeeNo}
			byEmp[row.Key.EmployeeNo] = o
		}
		switch row.Key.Status {
		case models.StatusCompleted:
			o.Completed += row.Count
		case models.StatusRejected:
			o.Rejected += row.Count
		}
	}

	report := make([]outcome, 0, len(byEmp))
	for _, o := range byEmp {
		report = append(report, *o)
	}

	return response.Success(c, 200, report)
}
