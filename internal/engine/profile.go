package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/danieljhkim/extprofiles/internal/extensions"
	"github.com/danieljhkim/extprofiles/internal/profiles"
)

// ListProfiles returns every profile, the built-in global profile first.
func (e *Engine) ListProfiles(ctx context.Context) (*ListProfilesResult, error) {
	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}

	result := &ListProfilesResult{Profiles: []ProfileInfo{{
		Name:           profiles.GlobalProfile,
		ExtensionCount: len(doc.Catalog),
		Builtin:        true,
	}}}
	for _, name := range doc.Names() {
		p := doc.Profiles[name]
		result.Profiles = append(result.Profiles, ProfileInfo{
			Name:           name,
			ExtensionCount: len(p.Extensions),
			UpdatedAt:      p.UpdatedAt,
		})
	}
	return result, nil
}

// DescribeProfile returns a profile and the extensions it lists that are
// no longer installed.
func (e *Engine) DescribeProfile(ctx context.Context, name string) (*DescribeProfileResult, error) {
	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}

	p, err := resolveProfile(doc, name)
	if err != nil {
		return nil, err
	}

	result := &DescribeProfileResult{
		ProfileInfo: ProfileInfo{
			Name:           p.Name,
			ExtensionCount: len(p.Extensions),
			Builtin:        isGlobal(p.Name),
			UpdatedAt:      p.UpdatedAt,
		},
		Extensions: p.Extensions,
		CreatedAt:  p.CreatedAt,
	}
	for _, ext := range p.Extensions {
		if _, ok := findInCatalog(doc, ext.ID); !ok {
			result.NotInstalled = append(result.NotInstalled, ext.ID)
		}
	}
	return result, nil
}

// CreateProfile creates a profile enabling the given installed extensions.
func (e *Engine) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*DescribeProfileResult, error) {
	if err := profiles.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	if _, exists := doc.Profiles[req.Name]; exists {
		return nil, fmt.Errorf("%w: profile %q", ErrExists, req.Name)
	}
	if _, err := e.ensureCatalog(doc); err != nil {
		return nil, err
	}

	ids, err := lookupExtensions(doc, req.Extensions)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	p := &profiles.Profile{
		Name:       req.Name,
		Extensions: ids,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.SortExtensions()
	doc.Profiles[req.Name] = p

	if err := e.profiles.Save(doc); err != nil {
		return nil, err
	}
	e.logger.Info("profile created", "profile", req.Name, "extensions", len(p.Extensions))
	return e.DescribeProfile(ctx, req.Name)
}

// EditProfile adds and removes extensions from a profile.
func (e *Engine) EditProfile(ctx context.Context, req *EditProfileRequest) (*DescribeProfileResult, error) {
	if isGlobal(req.Name) {
		return nil, fmt.Errorf("%w: %q cannot be edited", ErrReserved, req.Name)
	}

	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	p, ok := doc.Profiles[req.Name]
	if !ok {
		return nil, fmt.Errorf("%w: profile %q", ErrNotFound, req.Name)
	}
	if _, err := e.ensureCatalog(doc); err != nil {
		return nil, err
	}

	add, err := lookupExtensions(doc, req.Add)
	if err != nil {
		return nil, err
	}
	p.Extensions = slices.DeleteFunc(p.Extensions, func(ext extensions.Identifier) bool {
		return slices.ContainsFunc(req.Remove, func(id string) bool {
			return strings.EqualFold(id, ext.ID)
		})
	})
	p.Extensions = append(p.Extensions, add...)
	p.SortExtensions()
	p.UpdatedAt = e.clock.Now()

	if err := e.profiles.Save(doc); err != nil {
		return nil, err
	}
	return e.DescribeProfile(ctx, req.Name)
}

// CloneProfile copies src to a new profile dst. Cloning the global profile
// captures every installed extension.
func (e *Engine) CloneProfile(ctx context.Context, src, dst string) (*DescribeProfileResult, error) {
	if err := profiles.ValidateName(dst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	if _, exists := doc.Profiles[dst]; exists {
		return nil, fmt.Errorf("%w: profile %q", ErrExists, dst)
	}
	if isGlobal(src) {
		if _, err := e.ensureCatalog(doc); err != nil {
			return nil, err
		}
	}

	source, err := resolveProfile(doc, src)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	doc.Profiles[dst] = &profiles.Profile{
		Name:       dst,
		Extensions: slices.Clone(source.Extensions),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.profiles.Save(doc); err != nil {
		return nil, err
	}
	return e.DescribeProfile(ctx, dst)
}

// DeleteProfile removes a profile. Buckets it was applied to keep their
// enable/disable lists.
func (e *Engine) DeleteProfile(ctx context.Context, name string) error {
	if isGlobal(name) {
		return fmt.Errorf("%w: %q cannot be deleted", ErrReserved, name)
	}

	doc, err := e.profiles.Load()
	if err != nil {
		return err
	}
	if _, ok := doc.Profiles[name]; !ok {
		return fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}
	delete(doc.Profiles, name)

	if err := e.profiles.Save(doc); err != nil {
		return err
	}
	e.logger.Info("profile deleted", "profile", name)
	return nil
}

// ExportProfile writes a profile to dest in the export format.
func (e *Engine) ExportProfile(ctx context.Context, name, dest string) (*ExportResult, error) {
	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	p, err := resolveProfile(doc, name)
	if err != nil {
		return nil, err
	}

	data, err := profiles.MarshalExport(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := e.fs.AtomicWrite(dest, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return &ExportResult{Profile: p.Name, Path: dest}, nil
}

// ImportProfile creates a profile from an export file. Extensions that are
// not installed are kept so the profile works once they are.
func (e *Engine) ImportProfile(ctx context.Context, req *ImportProfileRequest) (*DescribeProfileResult, error) {
	data, err := e.fs.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	exp, err := profiles.ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	name := exp.Name
	if req.Name != "" {
		name = req.Name
	}
	if err := profiles.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	if _, err := e.ensureCatalog(doc); err != nil {
		return nil, err
	}
	now := e.clock.Now()
	p := &profiles.Profile{Name: name, Extensions: exp.Extensions, CreatedAt: now, UpdatedAt: now}
	if existing, ok := doc.Profiles[name]; ok {
		if !req.Overwrite {
			return nil, fmt.Errorf("%w: profile %q", ErrExists, name)
		}
		p.CreatedAt = existing.CreatedAt
	}
	for i, ext := range p.Extensions {
		p.Extensions[i].ID = strings.ToLower(ext.ID)
	}
	p.SortExtensions()
	doc.Profiles[name] = p

	if err := e.profiles.Save(doc); err != nil {
		return nil, err
	}
	return e.DescribeProfile(ctx, name)
}

// resolveProfile returns the named profile. The global profile is
// synthesized from the catalog.
func resolveProfile(doc *profiles.Document, name string) (*profiles.Profile, error) {
	if isGlobal(name) {
		p := &profiles.Profile{Name: profiles.GlobalProfile}
		for _, id := range doc.CatalogIDs() {
			p.Extensions = append(p.Extensions, doc.Catalog[id].Identifier)
		}
		return p, nil
	}
	p, ok := doc.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}
	return p, nil
}

func isGlobal(name string) bool {
	return strings.EqualFold(name, profiles.GlobalProfile)
}
