package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// ObjectStore is the subset of *minio.Client used for order documents
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DocumentSink 订单生成后渲染确认单并上传到对象存储
type DocumentSink struct {
	orders *repository.OrderRepository
	store  ObjectStore
	bucket string
}

func NewDocumentSink(orders *repository.OrderRepository, store ObjectStore, bucket string) *DocumentSink {
	return &DocumentSink{orders: orders, store: store, bucket: bucket}
}

func (s *DocumentSink) Name() string { return "document" }

func (s *DocumentSink) Deliver(ctx context.Context, event Event) error {
	if event.Type != EventOrderCreated || event.OrderID == "" {
		return nil
	}

	order, err := s.orders.FindByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", event.OrderID, err)
	}

	f, err := RenderOrderWorkbook(order)
	if err != nil {
		return fmt.Errorf("render order %s: %w", order.OrderCode, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	key := DocumentKey(order.ID)
	_, err = s.store.PutObject(ctx, s.bucket, key, buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	return s.orders.SetDocumentKey(ctx, order.ID, key)
}

// DocumentKey 订单确认单的对象路径
func DocumentKey(orderID string) string {
	return fmt.Sprintf("orders/%s.xlsx", orderID)
}

// RenderOrderWorkbook 生成订单确认单
func RenderOrderWorkbook(order *entity.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Order"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	rows := [][2]interface{}{
		{"Order Code", order.OrderCode},
		{"Order ID", order.ID},
		{"Quotation ID", order.QuotationID},
		{"Inquiry ID", order.InquiryID},
		{"Buyer", order.BuyerID},
		{"Supplier", order.SupplierID},
		{"Quantity", order.Quantity},
		{"Unit Price", order.UnitPrice.StringFixed(2)},
		{"Total Amount", order.TotalAmount.StringFixed(2)},
		{"Currency", order.Currency},
		{"Lead Time", order.LeadTime},
		{"Payment Terms", order.PaymentTerms},
		{"Shipping Address", order.ShippingAddress},
		{"Created At", order.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, r := range rows {
		row := i + 1
		label := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, label, r[0])
		f.SetCellStyle(sheet, label, label, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 48)
	return f, nil
}
