package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ListInventory returns every raw inventory record.
func (c *Client) ListInventory(ctx context.Context) ([]RawProduct, error) {
	var out []RawProduct
	err := c.do(ctx, call{op: "list_inventory", method: http.MethodGet, base: c.inventoryURL, path: "/inventario"}, &out)
	return out, err
}

// ListImages returns the images of a product. A 404 means the product has none.
func (c *Client) ListImages(ctx context.Context, productID int64) ([]RawImage, error) {
	var out []RawImage
	err := c.do(ctx, call{op: "list_images", method: http.MethodGet, base: c.inventoryURL, path: fmt.Sprintf("/imagen/%d", productID)}, &out)
	if IsNotFound(err) {
		return []RawImage{}, nil
	}
	return out, err
}
