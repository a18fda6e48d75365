package gitcli

import (
	"bufio"
	"strings"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// unmergedCodes are the porcelain XY pairs git uses for conflicted paths.
var unmergedCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true, "DU": true, "AA": true, "UU": true,
}

// parseStatus reads `git status --porcelain` (v1) output.
func parseStatus(output string) entities.WorkingTreeStatus {
	var status entities.WorkingTreeStatus
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 { //nolint:mnd // "XY path"
			continue
		}
		code := line[:2]
		path := strings.TrimSpace(line[3:])

		switch {
		case unmergedCodes[code]:
			status.Conflicted = append(status.Conflicted, path)
		case code == "??":
			status.Created = append(status.Created, path)
		case code[0] == 'R' || code[1] == 'R':
			if _, to, ok := strings.Cut(path, " -> "); ok {
				path = to
			}
			status.Renamed = append(status.Renamed, path)
		case code[0] == 'A':
			status.Added = append(status.Added, path)
		case code[0] == 'D' || code[1] == 'D':
			status.Deleted = append(status.Deleted, path)
		case code[0] == 'M' || code[1] == 'M' || code[1] == 'T' || code[0] == 'T':
			status.Modified = append(status.Modified, path)
		}
	}
	return status
}

// parseRemoteRefs reads `git ls-remote --refs` output into ref names.
func parseRemoteRefs(output string) []string {
	var refs []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 { //nolint:mnd // "<sha> <ref>"
			continue
		}
		refs = append(refs, fields[1])
	}
	return refs
}
