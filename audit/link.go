package audit

import (
	"fmt"
	"strings"
)

const deepLinkFormat = "%s/codeinsight/FNCI#myprojectdetails/?id=%d&tab=projectInventory&pinv=%d"

// DeepLink points at an inventory item inside the Code Insight UI.
func DeepLink(baseURL string, projectID, itemID int) string {
	return fmt.Sprintf(deepLinkFormat, strings.TrimRight(baseURL, "/"), projectID, itemID)
}
