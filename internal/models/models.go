package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ============================================
// MongoDB Models
// ============================================

// BaseModel for MongoDB documents
type BaseModel struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Image represents an image with CDN info
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// User model. One document per employee; employeeNo and email are unique.
type User struct {
	BaseModel    `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	EmployeeNo   string `json:"employee_no" bson:"employee_no"`
	JobType      string `json:"job_type" bson:"job_type"`
	Email        string `json:"email" bson:"email"`
	ContactNo    string `json:"contact_no" bson:"contact_no"`
	Password     string `json:"-" bson:"password"`
	ProfileImage *Image `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	IsVerified   bool   `json:"is_verified" bson:"is_verified"`
	VerifyToken  string `json:"-" bson:"verify_token,omitempty"`
	ResetCode    string `json:"-" bson:"reset_code,omitempty"`
	IsActive     bool   `json:"is_active" bson:"is_active"`
}

// NewUser creates a new User instance
func NewUser() *User {
	return &User{
		BaseModel: BaseModel{
			ID:        primitive.NewObjectID(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		IsActive: true,
	}
}

// Session identifies the signed-in employee for a workflow operation.
// Handlers build it from the JWT claims; tests can supply any value.
type Session struct {
	UserID     string
	EmployeeNo string
	JobType    string
	Email      string
}

// ============================================
// Shop Model
// ============================================

// Shop model. The document key is the normalized (trimmed, lowercased)
// shop name, so lookups by name never need an index.
type Shop struct {
	BaseModel `bson:",inline"`
	ShopName  string `json:"shop_name" bson:"shop_name"`
	OwnerName string `json:"owner_name" bson:"owner_name"`
	ContactNo string `json:"contact_no" bson:"contact_no"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	OpenTime  string `json:"open_time" bson:"open_time"`
	CloseTime string `json:"close_time" bson:"close_time"`
	CloseDate string `json:"close_date" bson:"close_date"`
	ShopImage *Image `json:"shop_image,omitempty" bson:"shop_image,omitempty"`
}

// NewShop creates a new Shop instance
func NewShop() *Shop {
	return &Shop{
		BaseModel: BaseModel{
			ID:        primitive.NewObjectID(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

// ============================================
// Inventory Model
// ============================================

// InventoryItem model. itemNo is unique across the collection; quantity is
// decremented by invoice submission and restored by restock-on-rejection.
type InventoryItem struct {
	BaseModel `bson:",inline"`
	ItemNo    string  `json:"item_no" bson:"item_no"`
	ItemName  string  `json:"item_name" bson:"item_name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// NewInventoryItem creates a new InventoryItem instance
func NewInventoryItem() *InventoryItem {
	return &InventoryItem{
		BaseModel: BaseModel{
			ID:        primitive.NewObjectID(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

// ============================================
// Invoice Models
// ============================================

// InvoiceLine is a single priced item row on an invoice.
type InvoiceLine struct {
	ItemNo   string  `json:"item_no" bson:"item_no"`
	ItemName string  `json:"item_name" bson:"item_name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Total    float64 `json:"total" bson:"total"`
}

// Invoice model: the unassigned pool. A bill number lives either here or in
// assignedInvoices, never both.
type Invoice struct {
	BaseModel   `bson:",inline"`
	BillNo      int           `json:"bill_no" bson:"bill_no"`
	ShopName    string        `json:"shop_name" bson:"shop_name"`
	SellerEmpNo string        `json:"seller_emp_no" bson:"seller_emp_no"`
	Items       []InvoiceLine `json:"items" bson:"items"`
	TotalAmount float64       `json:"total_amount" bson:"total_amount"`
}

// NewInvoice creates a new Invoice instance
func NewInvoice() *Invoice {
	return &Invoice{
		BaseModel: BaseModel{
			ID:        primitive.NewObjectID(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

// AssignedInvoice is the invoice copy created when an admin assigns a bill
// to a deliverer. The source invoice is deleted in the same transaction.
type AssignedInvoice struct {
	BaseModel    `bson:",inline"`
	BillNo       int           `json:"bill_no" bson:"bill_no"`
	ShopName     string        `json:"shop_name" bson:"shop_name"`
	SellerEmpNo  string        `json:"seller_emp_no" bson:"seller_emp_no"`
	Items        []InvoiceLine `json:"items" bson:"items"`
	TotalAmount  float64       `json:"total_amount" bson:"total_amount"`
	DeliverEmpNo string        `json:"deliver_emp_no" bson:"deliver_emp_no"`
	AssignedAt   time.Time     `json:"assigned_at" bson:"assigned_at"`
}

// AssignedDelivery tracks bills awaiting a delivery outcome for one
// deliverer. Each assign call writes one document per bill with a singleton
// billNos array; removing the last bill number deletes the document.
type AssignedDelivery struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeliverEmpNo string             `json:"deliver_emp_no" bson:"deliver_emp_no"`
	BillNos      []int              `json:"bill_nos" bson:"bill_nos"`
	AssignedAt   time.Time          `json:"assigned_at" bson:"assigned_at"`
}

// ============================================
// Delivery Status / History Models
// ============================================

// DeliveryStatusRecord is the current status snapshot, keyed by the bill
// number rendered as a string (matches the admin panel contract).
type DeliveryStatusRecord struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BillNo         string             `json:"bill_no" bson:"bill_no"`
	DeliveryStatus DeliveryStatus     `json:"delivery_status" bson:"delivery_status"`
	ShopName       string             `json:"shop_name" bson:"shop_name"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
}

// HistoryRecord is the terminal audit record, one per completed delivery
// attempt. RejectionReason is present exactly when the status is Rejected.
type HistoryRecord struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BillNo          string             `json:"bill_no" bson:"bill_no"`
	Address         string             `json:"address" bson:"address"`
	ContactNo       string             `json:"contact_no" bson:"contact_no"`
	OwnerName       string             `json:"owner_name" bson:"owner_name"`
	ShopName        string             `json:"shop_name" bson:"shop_name"`
	DeliveryStatus  DeliveryStatus     `json:"delivery_status" bson:"delivery_status"`
	EmployeeNo      string             `json:"employee_no" bson:"employee_no"`
	CompletedAt     time.Time          `json:"completed_at" bson:"completed_at"`
	RejectionReason string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
}

// RejectedBill archives a restocked rejection before the status doc is
// removed from the workflow.
type RejectedBill struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BillNo    string             `json:"bill_no" bson:"bill_no"`
	Reason    string             `json:"reason" bson:"reason"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// ============================================
// Employee Target Model
// ============================================

// EmployeeTarget holds the monthly sales goal and running achievement for
// one seller. Achievement grows by invoice totalAmount at submission time.
type EmployeeTarget struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EmployeeNo  string             `json:"employee_no" bson:"employee_no"`
	Target      float64            `json:"target" bson:"target"`
	Achievement float64            `json:"achievement" bson:"achievement"`
	Month       string             `json:"month" bson:"month"`
	SystemDate  string             `json:"system_date" bson:"system_date"`
}

// Counter is the singleton bill-number counter document.
type Counter struct {
	ID     string `json:"id" bson:"_id"`
	Latest int    `json:"latest" bson:"latest"`
}

// ============================================
// Constants
// ============================================

// JobType constants
const (
	JobSeller      = "Seller"
	JobDeliverer   = "Deliverer"
	JobDistributor = "Distributor"
	JobAdmin       = "Admin"
)

// Collection names
const (
	ColUsers              = "users"
	ColShops              = "shops"
	ColInventory          = "inventory"
	ColInvoices           = "invoices"
	ColAssignedInvoices   = "assignedInvoices"
	ColAssignedDeliveries = "assignedDeliveries"
	ColDeliveryStatus     = "deliverystatus"
	ColHistory            = "history"
	ColEmployeeTargets    = "employeeTargets"
	ColRejectedBills      = "rejectedbill"
	ColCounters           = "counters"
	ColNotifications      = "notifications"
)

// InvoiceCounterID is the _id of the singleton counter document.
const InvoiceCounterID = "invoiceCounter"

// DefaultMonthlyTarget seeds the target document created on a seller's
// first sale of the month.
const DefaultMonthlyTarget = 100

// UndoWindow is how long after completion a deliverer may undo a terminal
// outcome. Enforced server-side; clients also grey the button out.
const UndoWindow = 60 * time.Second
