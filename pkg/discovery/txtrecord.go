package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeHostTXT creates the TXT records of a host.
func EncodeHostTXT(info *HostInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyVersion] = info.Protocol
	txt[TXTKeyMax] = strconv.Itoa(info.MaxGamepads)
	txt[TXTKeyFree] = strconv.Itoa(info.Free)

	// Optional fields
	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if info.Path != "" && info.Path != "/" {
		txt[TXTKeyPath] = info.Path
	}

	return txt
}

// DecodeHostTXT parses the TXT records of a host.
func DecodeHostTXT(txt TXTRecordMap) (*HostInfo, error) {
	info := &HostInfo{Path: "/"}

	ver, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	info.Protocol = ver

	var err error
	if info.MaxGamepads, err = decodeCount(txt, TXTKeyMax); err != nil {
		return nil, err
	}
	if info.Free, err = decodeCount(txt, TXTKeyFree); err != nil {
		return nil, err
	}
	if info.Free > info.MaxGamepads {
		return nil, fmt.Errorf("%w: free %d > max %d", ErrInvalidTXT, info.Free, info.MaxGamepads)
	}

	info.Name = txt[TXTKeyName]
	if p, ok := txt[TXTKeyPath]; ok && p != "" {
		info.Path = p
	}
	return info, nil
}

func decodeCount(txt TXTRecordMap, key string) (int, error) {
	s, ok := txt[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRequired, key)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, key, s)
	}
	return n, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, sorted by key.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k != "" {
			txt[k] = v
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return ErrEmptyInstanceName
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
