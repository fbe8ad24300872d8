package git

import (
	"context"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// fallbackDefaultBranches are tried, in order, when a remote does not
// advertise where its HEAD points
var fallbackDefaultBranches = []string{"main", "master"}

// DefaultBranch asks remote which branch its HEAD points to, the equivalent
// of `git ls-remote --symref <remote> HEAD`.
func DefaultBranch(ctx context.Context, remote string) (string, error) {
	rem := gogit.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{remote},
	})

	refs, err := rem.ListContext(ctx, &gogit.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", remote, err)
	}
	return defaultBranchFromRefs(refs)
}

// defaultBranchFromRefs picks the symbolic HEAD target out of an advertised
// ref list. Servers without the symref capability only advertise HEAD's hash,
// in which case the branch sharing that hash wins.
func defaultBranchFromRefs(refs []*plumbing.Reference) (string, error) {
	var headHash plumbing.Hash
	branches := map[string]plumbing.Hash{}

	for _, ref := range refs {
		switch {
		case ref.Name() == plumbing.HEAD && ref.Type() == plumbing.SymbolicReference:
			if ref.Target().IsBranch() {
				return ref.Target().Short(), nil
			}
		case ref.Name() == plumbing.HEAD:
			headHash = ref.Hash()
		case ref.Name().IsBranch():
			branches[ref.Name().Short()] = ref.Hash()
		}
	}

	if headHash.IsZero() {
		return "", fmt.Errorf("remote does not advertise HEAD")
	}
	for _, name := range fallbackDefaultBranches {
		if branches[name] == headHash {
			return name, nil
		}
	}
	names := make([]string, 0, len(branches))
	for name := range branches {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if branches[name] == headHash {
			return name, nil
		}
	}
	return "", fmt.Errorf("no branch matches HEAD %s", headHash)
}
